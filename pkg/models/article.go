package models

import "time"

// Link is a discovered article URL waiting to be scraped.
// Rows are append-only: duplicates are rejected at insert time and the
// row is never mutated afterwards.
type Link struct {
	ID           int64     `json:"id" db:"id"`
	URL          string    `json:"url" db:"url"`
	Source       string    `json:"source" db:"source"`
	DiscoveredAt time.Time `json:"discovered_at" db:"discovered_at"`
}

// ArticleData is the normalized payload a scraper produces for one URL.
type ArticleData struct {
	URL             string `json:"url"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	PublicationDate string `json:"publication_date"`
	RawText         string `json:"raw_text"`
	CleanedText     string `json:"cleaned_text"`
}

// Article is a scraped article row. IsAnalyzed flips false->true exactly
// once, after the analysis stage has processed the article (including
// zero-entity outcomes), so the article never re-enters the queue.
type Article struct {
	ID              int64     `json:"id" db:"id"`
	LinkID          int64     `json:"link_id" db:"link_id"`
	URL             string    `json:"url" db:"url"`
	Title           string    `json:"title" db:"title"`
	Author          string    `json:"author" db:"author"`
	PublicationDate string    `json:"publication_date" db:"publication_date"`
	RawText         string    `json:"-" db:"raw_text"`
	CleanedText     string    `json:"cleaned_text" db:"cleaned_text"`
	IsAnalyzed      bool      `json:"is_analyzed" db:"is_analyzed"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
