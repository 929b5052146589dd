package dataset

import "github.com/Veraticus/tandem-analyzer/internal/model"

// SampleDatasets returns the demo datasets shown on first start.
func SampleDatasets() []model.Dataset {
	return []model.Dataset{
		{
			ID:          "dataset_001",
			Name:        "tandem_export_2024_09.csv",
			UploadDate:  "2024-09-25",
			FileSize:    "2.3 MB",
			DateRange:   "Sep 1-30, 2024",
			RecordCount: 8640,
		},
		{
			ID:          "dataset_002",
			Name:        "tandem_export_2024_08.zip",
			UploadDate:  "2024-09-20",
			FileSize:    "1.8 MB",
			DateRange:   "Aug 1-31, 2024",
			RecordCount: 8928,
		},
	}
}
