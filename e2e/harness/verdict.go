package harness

import "fmt"

// Verdict is the integer classification of one engine invocation.
// Zero is success; negative values are the p6sh error taxonomy.
type Verdict int

const (
	VerdictOK               Verdict = 0
	VerdictUnspecified      Verdict = -1 // unspecified error, or a missing expected token
	VerdictInconsistentFS   Verdict = -2
	VerdictInvalidMode      Verdict = -3
	VerdictNameTooLong      Verdict = -4
	VerdictNotFound         Verdict = -5
	VerdictInvalidHandle    Verdict = -6
	VerdictInvalidOffset    Verdict = -7
	VerdictEOF              Verdict = -8
	VerdictAlreadyExists    Verdict = -9
	VerdictInvalidName      Verdict = -10
	VerdictDirNotEmpty      Verdict = -11
	VerdictInvalidInode     Verdict = -12
	VerdictFDTableFull      Verdict = -13
	VerdictBitmapError      Verdict = -14
	VerdictOutOfInodes      Verdict = -15
	VerdictOutOfBlocks      Verdict = -16
	VerdictDirEntryAdd      Verdict = -17
	VerdictDirEntryNotFound Verdict = -18
	VerdictNotADirectory    Verdict = -19
	VerdictFilenameParse    Verdict = -20
	VerdictInodeTableFull   Verdict = -21
	VerdictInvalidBlock     Verdict = -22
	VerdictFileInUse        Verdict = -23
)

var verdictNames = map[Verdict]string{
	VerdictOK:               "ok",
	VerdictUnspecified:      "unspecified error or missing token",
	VerdictInconsistentFS:   "inconsistent file system",
	VerdictInvalidMode:      "invalid mode",
	VerdictNameTooLong:      "name too long",
	VerdictNotFound:         "not found",
	VerdictInvalidHandle:    "invalid handle",
	VerdictInvalidOffset:    "invalid offset",
	VerdictEOF:              "end of file",
	VerdictAlreadyExists:    "already exists",
	VerdictInvalidName:      "invalid name",
	VerdictDirNotEmpty:      "directory not empty",
	VerdictInvalidInode:     "invalid inode",
	VerdictFDTableFull:      "descriptor table exhausted",
	VerdictBitmapError:      "bitmap error",
	VerdictOutOfInodes:      "inodes exhausted",
	VerdictOutOfBlocks:      "data blocks exhausted",
	VerdictDirEntryAdd:      "directory entry add failed",
	VerdictDirEntryNotFound: "directory entry not found",
	VerdictNotADirectory:    "path component is a file",
	VerdictFilenameParse:    "filename parse error",
	VerdictInodeTableFull:   "inode table full",
	VerdictInvalidBlock:     "invalid block",
	VerdictFileInUse:        "file open elsewhere",
}

// Known reports whether v belongs to the fixed taxonomy.
func (v Verdict) Known() bool {
	_, ok := verdictNames[v]
	return ok
}

func (v Verdict) String() string {
	if name, ok := verdictNames[v]; ok {
		return name
	}
	return fmt.Sprintf("verdict(%d)", int(v))
}
