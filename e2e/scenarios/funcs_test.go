package scenarios

import (
	"testing"

	"github.com/isakkjerstad/inf2201-p6-tests/e2e/harness"
)

// fiveLevels builds /one/two/three/four/five holding three directories.
var fiveLevels = harness.Scenario{
	Name: "build five-level tree",
	Steps: commands(
		"mkdir one", "cd one",
		"mkdir two", "cd two",
		"mkdir three", "cd three",
		"mkdir four", "cd four",
		"mkdir five", "cd five",
		"mkdir findMe1", "mkdir findMe2", "mkdir findMe3",
	),
}

func TestMkdir(t *testing.T) {
	runSequence(t,
		harness.Scenario{
			Name:   "mkdir in a subdirectory",
			Steps:  commands("mkdir myDir", "cd myDir", "mkdir dirOne", "mkdir dirTwo", "mkdir dirThree", "ls"),
			Expect: []string{"dirOne", "dirTwo", "dirThree", "..", "."},
		},
		harness.Scenario{
			Name:   "mkdir persists",
			Steps:  commands("ls"),
			Expect: []string{".", "..", "myDir"},
		},
	)
}

func TestCdRelative(t *testing.T) {
	runSequence(t,
		fiveLevels,
		harness.Scenario{
			Name:   "cd with relative paths",
			Steps:  commands("cd one", "cd two", "cd three", "cd four", "cd five", "ls"),
			Expect: []string{"findMe1", "findMe2", "findMe3"},
		},
	)
}

func TestCdAbsolute(t *testing.T) {
	runSequence(t,
		fiveLevels,
		harness.Scenario{
			Name:   "cd with an absolute path",
			Steps:  commands("cd /one/two/three/four/five", "ls"),
			Expect: []string{"findMe1", "findMe2", "findMe3"},
		},
	)
}

func TestRmdir(t *testing.T) {
	runSequence(t,
		harness.Scenario{
			Name:   "create directory",
			Steps:  commands("mkdir remove_me", "ls"),
			Expect: []string{"remove_me"},
		},
		harness.Scenario{
			Name:   "removed directory is gone",
			Steps:  commands("rmdir remove_me", "ls"),
			Expect: []string{"remove_me"},
			Want:   harness.VerdictUnspecified,
			Verify: []harness.Assertion{harness.AssertNotContains("remove_me")},
		},
	)
}

func TestLs(t *testing.T) {
	runSequence(t, harness.Scenario{
		Name:   "ls lists root",
		Steps:  commands("mkdir one", "mkdir two", "mkdir three", "ls"),
		Expect: []string{".", "..", "one", "two", "three"},
	})
}

func TestPwd(t *testing.T) {
	runSequence(t,
		harness.Scenario{
			Name: "build tree",
			Steps: commands(
				"mkdir mnt", "cd mnt",
				"mkdir users", "cd users",
				"mkdir ikj023", "cd ikj023",
				"mkdir Documents", "mkdir Desktop", "mkdir Downloads",
			),
		},
		harness.Scenario{
			Name:   "pwd prints the working directory",
			Steps:  commands("cd mnt/users/ikj023/Documents", "pwd"),
			Expect: []string{"/mnt/users/ikj023/Documents"},
		},
	)
}

func TestCat(t *testing.T) {
	runSequence(t,
		harness.Scenario{
			Name:  "cat creates files",
			Steps: creates("file1", "file2", "file3"),
		},
		harness.Scenario{
			Name:   "files are listed",
			Steps:  commands("ls"),
			Expect: []string{"file1", "file2", "file3"},
		},
	)
}

func TestMore(t *testing.T) {
	runSequence(t,
		harness.Scenario{
			Name:  "create file",
			Steps: creates("myFile123"),
		},
		harness.Scenario{
			Name:   "more prints the content",
			Steps:  commands("more myFile123"),
			Expect: []string{"myFile123"},
		},
	)
}

func TestLn(t *testing.T) {
	runSequence(t,
		harness.Scenario{
			Name:  "create directory and file",
			Steps: append(sessions("mkdir myDir"), creates("myFile123")...),
		},
		harness.Scenario{
			Name:  "link to an absolute path",
			Steps: commands("cd myDir", "ln myLink /myFile123"),
		},
		harness.Scenario{
			Name:   "link reads the target",
			Steps:  commands("cd myDir", "more myLink"),
			Expect: []string{"myFile123"},
		},
	)
}

func TestRm(t *testing.T) {
	runSequence(t,
		harness.Scenario{
			Name:  "create file",
			Steps: creates("myFile"),
		},
		harness.Scenario{
			Name:   "removed file is gone",
			Steps:  commands("rm myFile", "ls"),
			Expect: []string{"myFile"},
			Want:   harness.VerdictUnspecified,
		},
	)
}

func TestStat(t *testing.T) {
	runSequence(t,
		harness.Scenario{
			Name: "create file, directory and links",
			Steps: []harness.Step{
				{Create: "file"},
				{Commands: []string{"mkdir folder"}},
				{Commands: []string{"ln link1 file"}},
				{Commands: []string{"ln link2 file"}},
			},
		},
		harness.Scenario{
			Name:   "stat a linked file",
			Steps:  commands("stat file"),
			Expect: []string{"1", "2", "5"},
		},
		harness.Scenario{
			Name:   "stat a directory",
			Steps:  commands("stat folder"),
			Expect: []string{"2", "0", "40"},
		},
	)
}
