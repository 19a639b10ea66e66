// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the archive tables and columns so queries never embed
// bare identifiers.
package schema

// ArchiveEditionTable represents the 'archive.edition' table
type ArchiveEditionTable struct {
	Table         string
	ID            string
	EditionNumber string
	Title         string
	Date          string
	Publication   string
	Folder        string
	CoverImage    string
	PageCount     string
	ScannedAt     string
}

// ArchiveEdition is the schema definition for archive.edition
var ArchiveEdition = ArchiveEditionTable{
	Table:         "archive.edition",
	ID:            "id",
	EditionNumber: "editionnumber",
	Title:         "title",
	Date:          "editiondate",
	Publication:   "publication",
	Folder:        "folder",
	CoverImage:    "coverimage",
	PageCount:     "pagecount",
	ScannedAt:     "scannedat",
}

func (t ArchiveEditionTable) Columns() []string {
	return []string{
		t.ID, t.EditionNumber, t.Title, t.Date, t.Publication,
		t.Folder, t.CoverImage, t.PageCount, t.ScannedAt,
	}
}
