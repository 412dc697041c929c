// Package catalog loads the dataset catalog: the ordered list of videos whose
// audio and subtitles feed the segmentation pipeline.
//
// Catalogs are JSON arrays by default. Files ending in .yaml or .yml are read
// as YAML lists with the same keys. Structural problems (unreadable file,
// malformed document, missing required fields, duplicate or unsafe filenames)
// fail the whole load with services.ErrCatalogLoad; questionable language
// codes are reported as warnings only.
package catalog
