// Package ingestion turns tabular capture exports (CSV or XLSX) into entity
// states and feeds them through the capture pipeline. Each row is one entity;
// a TrackId column is mandatory, the kind's dedicated columns fill the typed
// fields, and every other column becomes a generic attribute.
package ingestion

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/paramtrail/paramtrail/internal/capture"
	"github.com/paramtrail/paramtrail/internal/domain"
)

var (
	// ErrUnsupportedFormat is returned when an uploaded file is not supported.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrMissingTrackColumn is returned when no TrackId column is present.
	ErrMissingTrackColumn = errors.New("no TrackId column found")

	byteOrderMark = []byte{0xEF, 0xBB, 0xBF}
)

// Capturer persists a batch of entity states as a new version. Satisfied by
// capture.Service.
type Capturer interface {
	Capture(ctx context.Context, req capture.Request) (capture.Result, error)
}

// Service ingests tabular data into tracked snapshots.
type Service struct {
	capturer Capturer
}

// NewService creates a new ingestion service.
func NewService(capturer Capturer) *Service {
	return &Service{capturer: capturer}
}

// Request describes the ingestion input. Kind applies to every row unless the
// table carries its own Kind column.
type Request struct {
	ProjectID    uuid.UUID
	VersionLabel string
	CapturedBy   string
	Official     bool
	Kind         domain.EntityKind
	FileName     string
	Data         io.Reader
}

// Summary returns ingestion level metrics plus the capture result.
type Summary struct {
	TotalRows   int            `json:"totalRows"`
	ParsedRows  int            `json:"parsedRows"`
	SkippedRows int            `json:"skippedRows"`
	RowErrors   []string       `json:"rowErrors,omitempty"`
	Capture     capture.Result `json:"capture"`
}

type tableData struct {
	headers []string
	rows    [][]string
}

// Ingest reads the uploaded file, maps rows to entity states, and captures
// them as one version. Rows missing a track id are skipped and reported; a
// malformed numeric dedicated field fails the whole ingestion so a typo never
// silently zeroes a stored measurement.
func (s *Service) Ingest(ctx context.Context, req Request) (Summary, error) {
	summary := Summary{}

	if req.ProjectID == uuid.Nil {
		return summary, errors.New("project id is required")
	}
	if err := domain.ValidateVersionLabel(req.VersionLabel); err != nil {
		return summary, err
	}
	if req.Data == nil {
		return summary, errors.New("data reader is required")
	}
	if req.Kind != "" {
		if err := domain.ValidateEntityKind(req.Kind); err != nil {
			return summary, err
		}
	}

	payload, err := io.ReadAll(req.Data)
	if err != nil {
		return summary, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(payload) == 0 {
		return summary, errors.New("file is empty")
	}

	table, err := parseTable(req.FileName, payload)
	if err != nil {
		return summary, err
	}
	summary.TotalRows = len(table.rows)

	states, rowErrors, err := mapRows(table, req.Kind)
	if err != nil {
		return summary, err
	}
	summary.RowErrors = rowErrors
	summary.SkippedRows = len(rowErrors)
	summary.ParsedRows = len(states)

	if len(states) == 0 {
		return summary, errors.New("no usable rows found in file")
	}

	result, err := s.capturer.Capture(ctx, capture.Request{
		ProjectID:    req.ProjectID,
		VersionLabel: req.VersionLabel,
		CapturedBy:   req.CapturedBy,
		Official:     req.Official,
		Entities:     states,
	})
	if err != nil {
		return summary, err
	}
	summary.Capture = result
	return summary, nil
}

func parseTable(fileName string, payload []byte) (tableData, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return parseCSV(payload)
	case ".xlsx":
		return parseExcel(payload)
	default:
		return tableData{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func parseCSV(payload []byte) (tableData, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return tableData{}, fmt.Errorf("failed to read csv: %w", err)
	}
	return normalizeTable(records)
}

func parseExcel(payload []byte) (tableData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return tableData{}, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return tableData{}, errors.New("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return tableData{}, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}
	return normalizeTable(rows)
}

// normalizeTable treats the first non-empty row as the header and pads every
// data row to the header's width.
func normalizeTable(records [][]string) (tableData, error) {
	if len(records) == 0 {
		return tableData{}, errors.New("no rows found in file")
	}

	var headerRow []string
	var dataRows [][]string
	for _, row := range records {
		if len(cleanRow(row)) == 0 {
			continue
		}
		if headerRow == nil {
			headerRow = row
			continue
		}
		dataRows = append(dataRows, row)
	}
	if headerRow == nil {
		return tableData{}, errors.New("header row could not be detected")
	}

	headers := make([]string, len(headerRow))
	for i, value := range headerRow {
		headers[i] = strings.TrimSpace(value)
	}
	for i := range dataRows {
		dataRows[i] = padRow(dataRows[i], len(headers))
	}

	return tableData{headers: headers, rows: dataRows}, nil
}

func cleanRow(row []string) []string {
	var cleaned []string
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			cleaned = append(cleaned, cell)
		}
	}
	return cleaned
}

func padRow(row []string, length int) []string {
	if len(row) >= length {
		return row[:length]
	}
	padded := make([]string, length)
	copy(padded, row)
	return padded
}

func mapRows(table tableData, defaultKind domain.EntityKind) ([]domain.EntityState, []string, error) {
	trackCol, kindCol := -1, -1
	for idx, header := range table.headers {
		switch normalizeHeader(header) {
		case "trackid":
			trackCol = idx
		case "kind":
			kindCol = idx
		}
	}
	if trackCol < 0 {
		return nil, nil, ErrMissingTrackColumn
	}
	if kindCol < 0 && defaultKind == "" {
		return nil, nil, errors.New("entity kind is required when the table has no Kind column")
	}

	states := make([]domain.EntityState, 0, len(table.rows))
	var rowErrors []string
	for rowIdx, row := range table.rows {
		rowNumber := rowIdx + 2 // 1-based, after the header row

		trackID := strings.TrimSpace(row[trackCol])
		if trackID == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: missing track id", rowNumber))
			continue
		}

		kind := defaultKind
		if kindCol >= 0 && strings.TrimSpace(row[kindCol]) != "" {
			kind = domain.EntityKind(strings.ToUpper(strings.TrimSpace(row[kindCol])))
		}
		if err := domain.ValidateEntityKind(kind); err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", rowNumber, err))
			continue
		}

		state, err := mapRow(table.headers, row, trackCol, kindCol, trackID, kind)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", rowNumber, err)
		}
		states = append(states, state)
	}
	return states, rowErrors, nil
}

func mapRow(headers, row []string, trackCol, kindCol int, trackID string, kind domain.EntityKind) (domain.EntityState, error) {
	state := domain.EntityState{TrackID: trackID, Kind: kind}
	switch kind {
	case domain.KindRoom:
		state.Room = &domain.RoomFields{}
	case domain.KindDoor:
		state.Door = &domain.DoorFields{}
	case domain.KindElement:
		state.Element = &domain.ElementFields{}
	}

	dedicated := dedicatedColumns(kind)
	for colIdx, header := range headers {
		if colIdx == trackCol || colIdx == kindCol || header == "" {
			continue
		}
		raw := strings.TrimSpace(row[colIdx])

		if canonical, ok := dedicated[normalizeHeader(header)]; ok {
			if err := setDedicated(&state, canonical, raw); err != nil {
				return domain.EntityState{}, fmt.Errorf("field %q: %w", header, err)
			}
			continue
		}
		if raw == "" {
			continue
		}
		state.Instance = append(state.Instance, domain.Attribute{
			Name:  header,
			Value: sniffValue(raw),
		})
	}
	return state, nil
}

// dedicatedColumns maps normalized header names to the kind's canonical
// dedicated attribute names, so "fire_rating" and "Fire Rating" both land in
// the same field.
func dedicatedColumns(kind domain.EntityKind) map[string]string {
	names := domain.DedicatedAttributeNames(kind)
	mapping := make(map[string]string, len(names))
	for _, name := range names {
		mapping[normalizeHeader(name)] = name
	}
	return mapping
}

func normalizeHeader(header string) string {
	header = strings.ToLower(strings.TrimSpace(header))
	header = strings.ReplaceAll(header, " ", "")
	header = strings.ReplaceAll(header, "_", "")
	header = strings.ReplaceAll(header, "-", "")
	return header
}

func setDedicated(state *domain.EntityState, name, raw string) error {
	numeric := func() (float64, error) {
		if raw == "" {
			return 0, nil
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("expected a number, got %q", raw)
		}
		return value, nil
	}

	switch {
	case state.Room != nil:
		r := state.Room
		switch name {
		case "Number":
			r.Number = raw
		case "Name":
			r.Name = raw
		case "Level":
			r.Level = raw
		case "Area":
			value, err := numeric()
			if err != nil {
				return err
			}
			r.Area = value
		case "Perimeter":
			value, err := numeric()
			if err != nil {
				return err
			}
			r.Perimeter = value
		case "Volume":
			value, err := numeric()
			if err != nil {
				return err
			}
			r.Volume = value
		case "Occupancy":
			r.Occupancy = raw
		case "Department":
			r.Department = raw
		case "Phase":
			r.Phase = raw
		case "Floor Finish":
			r.FloorFinish = raw
		case "Ceiling Finish":
			r.CeilingFinish = raw
		case "Wall Finish":
			r.WallFinish = raw
		case "Base Finish":
			r.BaseFinish = raw
		case "Comments":
			r.Comments = raw
		}
	case state.Door != nil:
		d := state.Door
		switch name {
		case "Family":
			d.Family = raw
		case "Type":
			d.TypeName = raw
		case "Mark":
			d.Mark = raw
		case "Level":
			d.Level = raw
		case "Fire Rating":
			d.FireRating = raw
		case "Width":
			value, err := numeric()
			if err != nil {
				return err
			}
			d.Width = value
		case "Height":
			value, err := numeric()
			if err != nil {
				return err
			}
			d.Height = value
		case "Phase Created":
			d.PhaseCreated = raw
		case "Phase Demolished":
			d.PhaseDemolished = raw
		case "Comments":
			d.Comments = raw
		}
	case state.Element != nil:
		e := state.Element
		switch name {
		case "Category":
			e.Category = raw
		case "Family":
			e.Family = raw
		case "Type":
			e.TypeName = raw
		case "Level":
			e.Level = raw
		case "Mark":
			e.Mark = raw
		case "Comments":
			e.Comments = raw
		}
	}
	return nil
}

// sniffValue guesses the attribute kind from a raw cell. Whole numbers keep
// the cell text as their display string so round-tripping through the store
// preserves what the user saw.
func sniffValue(raw string) domain.AttributeValue {
	if value, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return domain.IntegerValue(value, raw)
	}
	if value, err := strconv.ParseFloat(raw, 64); err == nil {
		return domain.NumberValue(value)
	}
	return domain.TextValue(raw)
}
