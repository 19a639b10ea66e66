// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ArchivePageTable represents the 'archive.page' table
type ArchivePageTable struct {
	Table      string
	ID         string
	EditionID  string
	SectionID  string
	PageNumber string
	FileName   string
	ImageURL   string
	Width      string
	Height     string
}

// ArchivePage is the schema definition for archive.page
var ArchivePage = ArchivePageTable{
	Table:      "archive.page",
	ID:         "id",
	EditionID:  "editionid",
	SectionID:  "sectionid",
	PageNumber: "pagenumber",
	FileName:   "filename",
	ImageURL:   "imageurl",
	Width:      "width",
	Height:     "height",
}

func (t ArchivePageTable) Columns() []string {
	return []string{t.ID, t.EditionID, t.SectionID, t.PageNumber, t.FileName, t.ImageURL, t.Width, t.Height}
}
