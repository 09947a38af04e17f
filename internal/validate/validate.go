// Package validate holds the client-side guards that keep bad input from
// ever reaching the backend: required fields for a new book, shape checks
// for a CSV import. These mirror the submit-enable checks of the form UI;
// the backend stays the final authority.
package validate

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

var ErrInvalid = errors.New("invalid")

// RequireBounded trims and ensures length bounds.
func RequireBounded(name, s string, min, max int) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < min || utf8.RuneCountInString(s) > max {
		return "", errors.New(name + " must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max) + " characters")
	}
	return s, nil
}

// NewBook checks the add-book form: title present, an author chosen and at
// least one genre selected.
func NewBook(title, authorID string, genreIDs []int) error {
	if _, err := RequireBounded("title", title, 1, 300); err != nil {
		return err
	}
	if strings.TrimSpace(authorID) == "" {
		return errors.New("an author must be selected")
	}
	if len(genreIDs) == 0 {
		return errors.New("at least one genre must be selected")
	}
	return nil
}

// BorrowerName checks the lend form's one required field.
func BorrowerName(name string) (string, error) {
	return RequireBounded("borrower name", name, 1, 150)
}

// csvColumns are the import header names, in any order. Only title and
// author are required per row; genres is a ';'-separated list.
var csvRequired = []string{"title", "author"}

// ImportCSV reads the whole CSV and checks it is importable: a header with
// the required columns, and no row with an empty title or author. Returns
// the number of data rows.
func ImportCSV(r io.Reader) (rows int, err error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return 0, errors.New("file is empty")
	}
	if err != nil {
		return 0, err
	}

	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range csvRequired {
		if _, ok := col[name]; !ok {
			return 0, errors.New("missing required column: " + name)
		}
	}

	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}
		line++
		for _, name := range csvRequired {
			i := col[name]
			if i >= len(rec) || strings.TrimSpace(rec[i]) == "" {
				return rows, errors.New("line " + strconv.Itoa(line) + ": empty " + name)
			}
		}
		rows++
	}
	if rows == 0 {
		return 0, errors.New("file has no book rows")
	}
	return rows, nil
}
