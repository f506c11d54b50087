package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/dmitrijs2005/skdtracker/internal/server/attempts"
	sc "github.com/dmitrijs2005/skdtracker/internal/server/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	exportLinkValidity = 15 * time.Minute
	sheetName          = "SKD"
)

var exportHeader = []string{"Username", "Cohort", "SKD ke", "TWK", "TIU", "TKP", "Total", "Created at"}

// ExportRow is one attempt as it appears in an exported file.
type ExportRow struct {
	Username  string
	Cohort    string
	Ordinal   int
	TWK       int
	TIU       int
	TKP       int
	Total     int
	CreatedAt time.Time
}

func (r ExportRow) cells() []string {
	created := ""
	if !r.CreatedAt.IsZero() {
		created = r.CreatedAt.UTC().Format("2006-01-02 15:04:05")
	}
	return []string{
		r.Username, r.Cohort, strconv.Itoa(r.Ordinal),
		strconv.Itoa(r.TWK), strconv.Itoa(r.TIU), strconv.Itoa(r.TKP), strconv.Itoa(r.Total),
		created,
	}
}

// ExportRows converts one account's sequenced attempts.
func ExportRows(username, cohort string, seq []attempts.Sequenced) []ExportRow {
	out := make([]ExportRow, 0, len(seq))
	for _, s := range seq {
		out = append(out, ExportRow{
			Username:  username,
			Cohort:    cohort,
			Ordinal:   s.Ordinal,
			TWK:       s.TWK,
			TIU:       s.TIU,
			TKP:       s.TKP,
			Total:     s.Total,
			CreatedAt: s.CreatedAt,
		})
	}
	return out
}

// ExportService renders attempt tables as CSV or XLSX and publishes them to
// S3-compatible storage.
type ExportService struct {
	config *sc.Config
}

func NewExportService(config *sc.Config) *ExportService {
	return &ExportService{config: config}
}

// Render encodes rows in format.
func (s *ExportService) Render(rows []ExportRow, format string) ([]byte, string, error) {
	switch format {
	case FormatCSV, "":
		b, err := s.CSV(rows)
		return b, "text/csv", err
	case FormatXLSX:
		b, err := s.Workbook(rows)
		return b, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	}
	return nil, "", fmt.Errorf("unsupported export format %q", format)
}

func (s *ExportService) CSV(rows []ExportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(r.cells()); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Workbook builds a single-sheet XLSX with a bold, filterable header row.
// Score columns are written as numbers.
func (s *ExportService) Workbook(rows []ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellStr(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(exportHeader), 1)
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	_ = f.SetCellStyle(sheetName, "A1", last, bold)
	_ = f.AutoFilter(sheetName, "A1:"+last, nil)

	for i, r := range rows {
		cells := r.cells()
		for col, v := range cells {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			var err error
			if col >= 2 && col <= 6 {
				n, _ := strconv.Atoi(v)
				err = f.SetCellValue(sheetName, cell, n)
			} else {
				err = f.SetCellStr(sheetName, cell, v)
			}
			if err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}
	_ = f.SetColWidth(sheetName, "A", "B", 18)
	_ = f.SetColWidth(sheetName, "H", "H", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// GetRandomStorageKey returns a fresh object key for an export file.
func GetRandomStorageKey(ext string) string {
	d := time.Now()
	return fmt.Sprintf("exports/%d/%d/%d/%v.%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

func (s *ExportService) getS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Publish uploads data under a new key and returns the key and a presigned
// GET URL valid for 15 minutes.
func (s *ExportService) Publish(ctx context.Context, data []byte, ext, contentType string) (string, string, error) {
	client, err := s.getS3Client(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := GetRandomStorageKey(ext)

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", "", fmt.Errorf("upload export: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(exportLinkValidity))
	if err != nil {
		return "", "", fmt.Errorf("presign export: %w", err)
	}

	return key, req.URL, nil
}
