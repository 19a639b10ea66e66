// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ArchiveSectionTable represents the 'archive.section' table
type ArchiveSectionTable struct {
	Table       string
	ID          string
	EditionID   string
	Name        string
	DisplayName string
	SortOrder   string
}

// ArchiveSection is the schema definition for archive.section
var ArchiveSection = ArchiveSectionTable{
	Table:       "archive.section",
	ID:          "id",
	EditionID:   "editionid",
	Name:        "name",
	DisplayName: "displayname",
	SortOrder:   "sortorder",
}

func (t ArchiveSectionTable) Columns() []string {
	return []string{t.ID, t.EditionID, t.Name, t.DisplayName, t.SortOrder}
}
