package model

// Dataset is the metadata entry for one uploaded pump export file.
// The file contents are never read; every field except Selected is fixed
// at upload time.
type Dataset struct {
	ID          string `json:"id"          yaml:"id"`
	Name        string `json:"name"        yaml:"name"`
	UploadDate  string `json:"uploadDate"  yaml:"uploadDate"`
	FileSize    string `json:"fileSize"    yaml:"fileSize"`
	DateRange   string `json:"dateRange"   yaml:"dateRange"`
	RecordCount int    `json:"recordCount" yaml:"recordCount"`
	Selected    bool   `json:"selected"    yaml:"selected"`
}

// FileInfo describes an uploaded file before it becomes a Dataset.
type FileInfo struct {
	Name string
	Size int64
}
