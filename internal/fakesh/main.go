// Command fakesh is a small stand-in for the p6sh file-system shell. It
// speaks the same line protocol and error convention, and keeps its tree in
// ./p6fs.json so state survives between sessions. Tests build it and drive
// it through the harness.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"
)

const (
	stateFile  = "p6fs.json"
	maxNameLen = 15
	rootInode  = 0
)

// Error codes, as printed by p6sh.
const (
	errNameTooLong  = -4
	errNotFound     = -5
	errExists       = -9
	errInvalidName  = -10
	errDirNotEmpty  = -11
	errNotDirectory = -19
)

type inode struct {
	Dir     bool           `json:"dir"`
	Entries map[string]int `json:"entries,omitempty"`
	Data    string         `json:"data,omitempty"`
	Links   int            `json:"links"`
}

type fileSystem struct {
	Next   int            `json:"next"`
	Inodes map[int]*inode `json:"inodes"`
}

type fsError int

func (e fsError) Error() string { return fmt.Sprintf("error: %d", int(e)) }

type shell struct {
	fs  *fileSystem
	cwd []string
	in  *bufio.Scanner
	out io.Writer
}

func main() {
	fs, err := load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fakesh: %v\n", err)
		os.Exit(1)
	}

	sh := &shell{
		fs:  fs,
		in:  bufio.NewScanner(os.Stdin),
		out: os.Stdout,
	}
	prompt := term.IsTerminal(int(os.Stdin.Fd()))

	for {
		if prompt {
			fmt.Fprint(sh.out, "$ ")
		}
		if !sh.in.Scan() {
			break
		}
		line := strings.TrimSpace(sh.in.Text())
		if line == "" {
			continue
		}
		if line == "exit" {
			break
		}
		if err := sh.exec(line); err != nil {
			fmt.Fprintln(sh.out, err)
		}
		if err := save(sh.fs); err != nil {
			fmt.Fprintf(os.Stderr, "fakesh: %v\n", err)
			os.Exit(1)
		}
	}
}

func load() (*fileSystem, error) {
	data, err := os.ReadFile(stateFile)
	if errors.Is(err, os.ErrNotExist) {
		return &fileSystem{
			Next:   rootInode + 1,
			Inodes: map[int]*inode{rootInode: {Dir: true, Entries: map[string]int{}, Links: 1}},
		}, nil
	}
	if err != nil {
		return nil, err
	}
	var fs fileSystem
	if err := json.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("corrupt %s: %w", stateFile, err)
	}
	return &fs, nil
}

func save(fs *fileSystem) error {
	data, err := json.Marshal(fs)
	if err != nil {
		return err
	}
	return os.WriteFile(stateFile, data, 0644)
}

func (sh *shell) exec(line string) error {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}

	switch name {
	case "ls":
		return sh.ls()
	case "pwd":
		fmt.Fprintln(sh.out, "/"+strings.Join(sh.cwd, "/"))
		return nil
	case "cd":
		return sh.cd(arg(0))
	case "mkdir":
		return sh.mkdir(arg(0))
	case "rmdir":
		return sh.rmdir(arg(0))
	case "cat":
		return sh.cat(arg(0))
	case "more":
		return sh.more(arg(0))
	case "ln":
		return sh.ln(arg(0), arg(1))
	case "rm":
		return sh.rm(arg(0))
	case "stat":
		return sh.stat(arg(0))
	default:
		fmt.Fprintf(sh.out, "unknown command: %s\n", name)
		return nil
	}
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.Contains(name, "/") {
		return fsError(errInvalidName)
	}
	if len(name) > maxNameLen {
		return fsError(errNameTooLong)
	}
	return nil
}

// resolve walks path from the working directory, or from the root for
// absolute paths, and returns the inode and the resulting components.
func (sh *shell) resolve(path string) (int, []string, error) {
	var parts []string
	if !strings.HasPrefix(path, "/") {
		parts = append(parts, sh.cwd...)
	}

	for _, part := range strings.Split(path, "/") {
		switch part {
		case "", ".":
		case "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
		default:
			if len(part) > maxNameLen {
				return 0, nil, fsError(errNameTooLong)
			}
			parts = append(parts, part)
		}
	}

	ino := rootInode
	for _, part := range parts {
		node := sh.fs.Inodes[ino]
		if !node.Dir {
			return 0, nil, fsError(errNotDirectory)
		}
		next, ok := node.Entries[part]
		if !ok {
			return 0, nil, fsError(errNotFound)
		}
		ino = next
	}
	return ino, parts, nil
}

func (sh *shell) current() *inode {
	ino, _, err := sh.resolve("/" + strings.Join(sh.cwd, "/"))
	if err != nil {
		return sh.fs.Inodes[rootInode]
	}
	return sh.fs.Inodes[ino]
}

func (sh *shell) alloc(node *inode) int {
	ino := sh.fs.Next
	sh.fs.Next++
	sh.fs.Inodes[ino] = node
	return ino
}

func (sh *shell) ls() error {
	dir := sh.current()
	names := make([]string, 0, len(dir.Entries))
	for name := range dir.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(sh.out, ".")
	fmt.Fprintln(sh.out, "..")
	for _, name := range names {
		fmt.Fprintln(sh.out, name)
	}
	return nil
}

func (sh *shell) cd(path string) error {
	if path == "" {
		path = "/"
	}
	ino, parts, err := sh.resolve(path)
	if err != nil {
		return err
	}
	if !sh.fs.Inodes[ino].Dir {
		return fsError(errNotDirectory)
	}
	sh.cwd = parts
	return nil
}

func (sh *shell) mkdir(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	dir := sh.current()
	if _, ok := dir.Entries[name]; ok {
		return fsError(errExists)
	}
	dir.Entries[name] = sh.alloc(&inode{Dir: true, Entries: map[string]int{}, Links: 1})
	return nil
}

func (sh *shell) rmdir(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	dir := sh.current()
	ino, ok := dir.Entries[name]
	if !ok {
		return fsError(errNotFound)
	}
	node := sh.fs.Inodes[ino]
	if !node.Dir {
		return fsError(errNotDirectory)
	}
	if len(node.Entries) > 0 {
		return fsError(errDirNotEmpty)
	}
	delete(dir.Entries, name)
	delete(sh.fs.Inodes, ino)
	return nil
}

// cat creates or truncates name and reads content lines until a lone ".".
// The content block is consumed even when name is rejected.
func (sh *shell) cat(name string) error {
	var lines []string
	for sh.in.Scan() {
		line := sh.in.Text()
		if line == "." {
			break
		}
		lines = append(lines, line)
	}

	if err := checkName(name); err != nil {
		return err
	}
	dir := sh.current()
	ino, ok := dir.Entries[name]
	if ok && sh.fs.Inodes[ino].Dir {
		return fsError(errNotDirectory)
	}
	if !ok {
		ino = sh.alloc(&inode{Links: 1})
		dir.Entries[name] = ino
	}

	data := strings.Join(lines, "\n")
	if len(lines) > 0 {
		data += "\n"
	}
	sh.fs.Inodes[ino].Data = data
	return nil
}

func (sh *shell) more(path string) error {
	ino, _, err := sh.resolve(path)
	if err != nil {
		return err
	}
	node := sh.fs.Inodes[ino]
	if node.Dir {
		return fsError(errNotDirectory)
	}
	fmt.Fprint(sh.out, node.Data)
	return nil
}

func (sh *shell) ln(name, target string) error {
	if err := checkName(name); err != nil {
		return err
	}
	ino, _, err := sh.resolve(target)
	if err != nil {
		return err
	}
	dir := sh.current()
	if _, ok := dir.Entries[name]; ok {
		return fsError(errExists)
	}
	dir.Entries[name] = ino
	sh.fs.Inodes[ino].Links++
	return nil
}

func (sh *shell) rm(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	dir := sh.current()
	ino, ok := dir.Entries[name]
	if !ok {
		return fsError(errNotFound)
	}
	node := sh.fs.Inodes[ino]
	if node.Dir {
		return fsError(errNotDirectory)
	}
	delete(dir.Entries, name)
	node.Links--
	if node.Links <= 0 {
		delete(sh.fs.Inodes, ino)
	}
	return nil
}

// stat prints "<name>: <links> <type> <size>" with type 0 for files.
func (sh *shell) stat(path string) error {
	ino, _, err := sh.resolve(path)
	if err != nil {
		return err
	}
	node := sh.fs.Inodes[ino]
	kind := 0
	if node.Dir {
		kind = 1
	}
	fmt.Fprintf(sh.out, "%s: %d %d %d\n", path, node.Links, kind, len(node.Data))
	return nil
}
