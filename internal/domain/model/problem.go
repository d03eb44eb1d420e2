package model

type FileType string

const (
	FileTypeSolution         FileType = "SOLUTION"
	FileTypeSolutionTemplate FileType = "SOLUTION_TEMPLATE"
	FileTypeTest             FileType = "TEST"
	FileTypeLinter           FileType = "LINTER"
)

func (t FileType) Valid() bool {
	switch t {
	case FileTypeSolution, FileTypeSolutionTemplate, FileTypeTest, FileTypeLinter:
		return true
	}
	return false
}

type Problem struct {
	ID                     ID     `json:"id"`
	Title                  string `json:"title"`
	Statement              string `json:"statement"`
	TimeRestriction        int    `json:"timeRestriction"`
	MemoryRestriction      int    `json:"memoryRestriction"`
	SolutionTemplateFileID ID     `json:"solutionTemplateFileId"`
	TestsFileID            ID     `json:"testsFileId"`
	LintersFileID          ID     `json:"lintersFileId"`
	TestsPoints            int    `json:"testsPoints"`
	LintersPoints          int    `json:"lintersPoints"`
	SubmissionsNumberLimit int    `json:"submissionsNumberLimit"`
}

// StoredFile is what the backend file service returns for an upload or a
// repository snapshot.
type StoredFile struct {
	ID ID `json:"id"`
}
