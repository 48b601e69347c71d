package components

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/app/notify"
	"github.com/yigit/cuetclass/internal/pkg/apperrors"
)

// SampleCSV is the template offered for download
const SampleCSV = `CUET ID,Full Name,Email,Department,Session,Section
2309026,John Doe,u2309026@student.cuet.ac.bd,CSE,2023-24,A
2309027,Jane Smith,u2309027@student.cuet.ac.bd,EEE,2023-24,B
2309028,Bob Johnson,u2309028@student.cuet.ac.bd,CSE,2023-24,A
`

// CSVField is the multipart field carrying the upload
const CSVField = "csv_file"

// maxListedErrors caps the row errors kept for display
const maxListedErrors = 5

// Upload notification texts
var (
	InvalidUploadFile = notify.Failure("Invalid File", "Please select a CSV file.")
	UploadFailed      = notify.Failure("Upload Failed", "Error processing the CSV file.")
)

// ErrMissingColumns is returned for a header without the required columns
var ErrMissingColumns = fmt.Errorf("csv needs CUET ID, Full Name and Email columns: %w", apperrors.ErrBadRequest)

// csv header aliases, lower-cased
var csvColumns = map[string]string{
	"cuet id":     "number",
	"student_id":  "number",
	"full name":   "name",
	"full_name":   "name",
	"name":        "name",
	"email":       "email",
	"department":  "department",
	"dept_code":   "department",
	"session":     "session",
	"batch":       "session",
	"section":     "section",
	"picture_url": "picture",
}

// StudentRow is one data row of an upload
type StudentRow struct {
	Line     int
	Input    models.UserInput
	Complete bool
}

// ParseStudentCSV reads the upload. Columns are matched by header name and
// unknown columns are ignored.
func ParseStudentCSV(r io.Reader) ([]StudentRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv file is empty: %w", apperrors.ErrBadRequest)
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int)
	for i, h := range header {
		if col, ok := csvColumns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))]; ok {
			index[col] = i
		}
	}
	for _, col := range []string{"number", "name", "email"} {
		if _, ok := index[col]; !ok {
			return nil, ErrMissingColumns
		}
	}

	var rows []StudentRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		in := models.UserInput{
			Role:           models.RoleStudent,
			StudentNumber:  get("number"),
			Name:           get("name"),
			Email:          strings.ToLower(get("email")),
			DepartmentCode: strings.ToUpper(get("department")),
			Session:        get("session"),
			Section:        strings.ToUpper(get("section")),
			ProfileImage:   get("picture"),
		}
		rows = append(rows, StudentRow{
			Line:     line,
			Input:    in,
			Complete: in.StudentNumber != "" && in.Name != "" && in.Email != "",
		})
	}
	return rows, nil
}

// BulkResult is the outcome of one upload
type BulkResult struct {
	Success int
	Failed  int
	// Errors lists the first few row failures
	Errors []string
}

// MoreErrors counts the failures not listed in Errors
func (r BulkResult) MoreErrors() int {
	return r.Failed - len(r.Errors)
}

// BulkUploadForm creates student accounts from a CSV file, one call to
// OnCreate per complete row
type BulkUploadForm struct {
	OnCreate func(ctx context.Context, in models.UserInput) error
	Notifier notify.Notifier

	Action     string
	SampleHref string

	mu       sync.Mutex
	fileName string
	fileSize int64
	result   *BulkResult
	inFlight atomic.Bool
}

// NewBulkUploadForm creates an idle form
func NewBulkUploadForm(onCreate func(context.Context, models.UserInput) error, n notify.Notifier) *BulkUploadForm {
	if n == nil {
		n = notify.Discard
	}
	return &BulkUploadForm{OnCreate: onCreate, Notifier: n}
}

// Processing reports whether an upload is in flight
func (f *BulkUploadForm) Processing() bool {
	return f.inFlight.Load()
}

// Result is the outcome of the last upload; nil before the first
func (f *BulkUploadForm) Result() *BulkResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Upload parses the file and creates every complete row. Incomplete rows and
// rows the backend rejects are counted as failures; the others still go
// through. The outcome goes to the notifier carried by ctx, or to Notifier
// when ctx has none.
func (f *BulkUploadForm) Upload(ctx context.Context, name string, size int64, r io.Reader) (BulkResult, error) {
	n := notify.FromContext(ctx, f.Notifier)
	if !strings.HasSuffix(strings.ToLower(name), ".csv") {
		n.Notify(ctx, InvalidUploadFile)
		return BulkResult{}, fmt.Errorf("file %q: %w", name, apperrors.ErrBadRequest)
	}
	if f.OnCreate == nil {
		return BulkResult{}, apperrors.ErrActionUnavailable
	}
	if !f.inFlight.CompareAndSwap(false, true) {
		return BulkResult{}, apperrors.ErrInFlight
	}
	defer f.inFlight.Store(false)

	f.mu.Lock()
	f.fileName, f.fileSize, f.result = name, size, nil
	f.mu.Unlock()

	rows, err := ParseStudentCSV(r)
	if err != nil {
		n.Notify(ctx, UploadFailed)
		return BulkResult{}, err
	}

	var res BulkResult
	fail := func(msg string) {
		res.Failed++
		if len(res.Errors) < maxListedErrors {
			res.Errors = append(res.Errors, msg)
		}
	}
	for _, row := range rows {
		if !row.Complete {
			fail(fmt.Sprintf("Row %d: Missing required fields", row.Line))
			continue
		}
		if err := f.OnCreate(ctx, row.Input); err != nil {
			fail(fmt.Sprintf("Row %d: %v", row.Line, err))
			continue
		}
		res.Success++
	}

	f.mu.Lock()
	f.result = &res
	f.mu.Unlock()

	if res.Failed == 0 {
		n.Notify(ctx, notify.Success("Upload Successful",
			"Successfully uploaded "+strconv.Itoa(res.Success)+" students."))
	} else {
		n.Notify(ctx, notify.Failure("Upload Completed with Errors",
			fmt.Sprintf("%d students uploaded, %d failed.", res.Success, res.Failed)))
	}
	return res, nil
}

// Render implements Renderer
func (f *BulkUploadForm) Render(w io.Writer) error {
	f.mu.Lock()
	view := struct {
		Action     string
		SampleHref string
		Field      string
		FileName   string
		FileSize   string
		Processing bool
		Result     *BulkResult
	}{
		Action:     f.Action,
		SampleHref: f.SampleHref,
		Field:      CSVField,
		FileName:   f.fileName,
		FileSize:   strconv.FormatFloat(float64(f.fileSize)/1024, 'f', 2, 64),
		Processing: f.inFlight.Load(),
		Result:     f.result,
	}
	f.mu.Unlock()
	return render(w, "bulk_upload", view)
}
