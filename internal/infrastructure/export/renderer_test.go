package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/google/uuid"
	"github.com/learnhub/backoffice/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func january() report.DateRange {
	return report.DateRange{
		Start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 31, 23, 59, 59, 999_000_000, time.UTC),
	}
}

func newTestRenderer() *Renderer {
	return NewRenderer(Config{Location: time.UTC})
}

func courseSalesReport() *report.Report[report.CourseSaleRow] {
	coupon := "SAVE10"
	return &report.Report[report.CourseSaleRow]{
		Kind:  report.KindCourseSales,
		Range: january(),
		Items: []report.CourseSaleRow{
			{
				OrderID:              uuid.MustParse("11111111-2222-3333-4444-555555555555"),
				Date:                 time.Date(2024, time.January, 12, 10, 0, 0, 0, time.UTC),
				CouponCode:           &coupon,
				OrderDiscountAmount:  dec("13"),
				OrderTotalPrice:      dec("117"),
				OrderTotalAdminShare: dec("23.5"),
				LineItems: []report.CourseLineItem{
					{CourseName: "Go", InstructorName: "Ada", ListPrice: dec("100"), OfferPrice: decPtr("80"), DiscountedPrice: dec("72"), AdminShare: dec("14.5")},
					{CourseName: "SQL", InstructorName: "Ada", ListPrice: dec("50"), DiscountedPrice: dec("45"), AdminShare: dec("9")},
				},
			},
			{
				OrderID:              uuid.MustParse("66666666-7777-8888-9999-000000000000"),
				Date:                 time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC),
				OrderDiscountAmount:  decimal.Zero,
				OrderTotalPrice:      dec("183"),
				OrderTotalAdminShare: dec("36.5"),
				LineItems: []report.CourseLineItem{
					{CourseName: "Rust", InstructorName: "Grace", ListPrice: dec("183"), DiscountedPrice: dec("183"), AdminShare: dec("36.5")},
				},
			},
		},
		Totals: report.Totals{
			TotalItems:      2,
			TotalPages:      1,
			CurrentPage:     1,
			Limit:           10,
			TotalAdminShare: dec("60"),
			TotalRevenue:    dec("300"),
			TotalSales:      2,
		},
	}
}

func TestFormat(t *testing.T) {
	f, err := ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())
	assert.Equal(t, "pdf", f.Extension())

	f, err = ParseFormat("excel")
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", f.ContentType())
	assert.Equal(t, "xlsx", f.Extension())

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "course-sales-2024-01-01-2024-01-31.xlsx", FileName(report.KindCourseSales, january(), FormatExcel))
	assert.Equal(t, "slot-bookings-2024-01-01-2024-01-31.pdf", FileName(report.KindStudentSlots, january(), FormatPDF))
}

func TestFormatter(t *testing.T) {
	f := NewFormatter("", time.UTC)

	assert.Equal(t, "₹0.00", f.Money(decimal.Zero))
	assert.Equal(t, "₹1,234.50", f.Money(dec("1234.5")))
	assert.Equal(t, "₹0.13", f.Money(dec("0.125")))
	assert.Equal(t, "-₹5.00", f.Money(dec("-5")))
	assert.Equal(t, "-", f.OptionalMoney(nil))
	assert.Equal(t, "1,234", f.Count(1234))

	start := time.Date(2024, time.January, 20, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "20 Jan 2024 09:00 - 10:00", f.Interval(start, start.Add(time.Hour)))
	assert.Equal(t, "20 Jan 2024 23:30 - 21 Jan 2024 00:30", f.Interval(start.Add(14*time.Hour+30*time.Minute), start.Add(15*time.Hour+30*time.Minute)))

	assert.Equal(t, "11111111", ShortID("11111111-2222-3333-4444-555555555555"))
	assert.Equal(t, "-", Coupon(nil))
}

func TestRenderer_CourseSalesSpreadsheet(t *testing.T) {
	rep := courseSalesReport()

	doc, err := newTestRenderer().CourseSales(rep, FormatExcel)
	require.NoError(t, err)
	assert.Equal(t, "course-sales-2024-01-01-2024-01-31.xlsx", doc.Filename)
	assert.Equal(t, FormatExcel, doc.Format)

	book, err := excelize.OpenReader(bytes.NewReader(doc.Content))
	require.NoError(t, err)
	defer book.Close()

	sheet := "Course Sales Report"
	rows, err := book.GetRows(sheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 4)

	assert.Equal(t, "Order ID", rows[0][0])
	assert.Equal(t, "Order Admin Share", rows[0][11])

	// first order: two item rows, order fields only on the first
	first := rows[1]
	assert.Equal(t, rep.Items[0].OrderID.String(), first[0])
	assert.Equal(t, "12 Jan 2024", first[1])
	assert.Equal(t, "Yes", first[2])
	assert.Equal(t, "Go", first[3])
	assert.True(t, dec("80").Equal(dec(first[6])))
	assert.True(t, dec("117").Equal(dec(first[9])))

	second := rows[2]
	assert.Equal(t, "", second[0])
	assert.Equal(t, "", second[1])
	assert.Equal(t, "SQL", second[3])
	assert.Equal(t, "-", second[6])
	assert.True(t, dec("45").Equal(dec(second[7])))
	assert.LessOrEqual(t, len(second), 9)

	third := rows[3]
	assert.Equal(t, rep.Items[1].OrderID.String(), third[0])
	assert.Equal(t, "No", third[2])
	assert.Equal(t, "Rust", third[3])

	// summary starts after one blank row
	label, err := book.GetCellValue(sheet, "A6")
	require.NoError(t, err)
	assert.Equal(t, "Total Orders", label)
	count, err := book.GetCellValue(sheet, "B6")
	require.NoError(t, err)
	assert.Equal(t, "2", count)

	label, err = book.GetCellValue(sheet, "A8")
	require.NoError(t, err)
	assert.Equal(t, "Total Revenue", label)
	revenue, err := book.GetCellValue(sheet, "B8", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.True(t, dec("300").Equal(dec(revenue)))

	styleID, err := book.GetCellStyle(sheet, "A1")
	require.NoError(t, err)
	style, err := book.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestRenderer_EmptyMembershipPDF(t *testing.T) {
	r := NewRenderer(Config{Location: time.UTC, PDF: PDFOptions{Compress: false}})
	rep := &report.Report[report.MembershipSaleRow]{
		Kind:   report.KindMembershipSales,
		Range:  january(),
		Items:  []report.MembershipSaleRow{},
		Totals: report.Totals{TotalRevenue: decimal.Zero, TotalAdminShare: decimal.Zero},
	}

	doc, err := r.MembershipSales(rep, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "membership-sales-2024-01-01-2024-01-31.pdf", doc.Filename)

	content := string(doc.Content)
	assert.True(t, strings.HasPrefix(content, "%PDF-"))
	assert.Contains(t, content, "%%EOF")

	texts := textsOf(pdfTexts(doc.Content, true))
	assert.Contains(t, texts, "Membership Sales Report")
	assert.Contains(t, texts, "Plan")
	assert.Contains(t, texts, "No membership sales in this period")
	assert.Contains(t, texts, "Total Sales: 0")
	assert.Contains(t, texts, "Total Revenue: ₹0.00")
	assert.Contains(t, texts, "Page 1 of 1")
}

func TestRenderer_CoreFontPDF(t *testing.T) {
	r := NewRenderer(Config{Location: time.UTC, PDF: PDFOptions{CoreFont: true, FontPath: "/ignored.ttf"}})
	rep := &report.Report[report.MembershipSaleRow]{
		Kind:   report.KindMembershipSales,
		Range:  january(),
		Totals: report.Totals{TotalRevenue: dec("1250")},
	}

	doc, err := r.MembershipSales(rep, FormatPDF)
	require.NoError(t, err)

	texts := textsOf(pdfTexts(doc.Content, false))
	assert.Contains(t, texts, "Total Revenue: Rs.1,250.00")
	assert.Contains(t, texts, "Page 1 of 1")
}

func TestRenderer_PDFPagination(t *testing.T) {
	r := NewRenderer(Config{Location: time.UTC})
	r.pdf.Compress = false

	rep := &report.Report[report.MembershipSaleRow]{
		Kind:  report.KindMembershipSales,
		Range: january(),
	}
	for i := 0; i < 50; i++ {
		rep.Items = append(rep.Items, report.MembershipSaleRow{
			OrderID:        uuid.New(),
			Date:           time.Date(2024, time.January, 1+i%28, 10, 0, 0, 0, time.UTC),
			PlanName:       "Gold",
			InstructorName: "Ada",
			Price:          dec("999"),
		})
	}
	rep.Totals = report.Totals{TotalItems: 50, TotalSales: 50, TotalRevenue: dec("49950")}

	doc, err := r.MembershipSales(rep, FormatPDF)
	require.NoError(t, err)
	runs := pdfTexts(doc.Content, true)

	require.Greater(t, countText(runs, "Order ID"), 1, "header is repeated on every page")
	pages := 0
	for _, run := range runs {
		if strings.HasPrefix(run.Text, "Page ") {
			pages++
		}
	}
	texts := textsOf(runs)
	assert.Contains(t, texts, fmt.Sprintf("Page 1 of %d", pages))
	assert.Contains(t, texts, fmt.Sprintf("Page 2 of %d", pages))
	assert.Equal(t, 50, countText(runs, "Gold"))
	assert.Contains(t, texts, "Total Revenue: ₹49,950.00")
}

func TestRenderer_CourseSalesPDF(t *testing.T) {
	r := NewRenderer(Config{Location: time.UTC, PDF: PDFOptions{Compress: false}})

	doc, err := r.CourseSales(courseSalesReport(), FormatPDF)
	require.NoError(t, err)
	texts := textsOf(pdfTexts(doc.Content, true))

	assert.Contains(t, texts, "11111111")
	assert.Contains(t, texts, "Go (Ada) ₹72.00")
	assert.Contains(t, texts, "SQL (Ada) ₹45.00")
	assert.Contains(t, texts, "Total Admin Share: ₹60.00")
	assert.Contains(t, texts, "Page 1 of 1")
}

func TestRenderer_OrderTallerThanPage(t *testing.T) {
	const items = 60
	order := report.CourseSaleRow{
		OrderID:              uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001"),
		Date:                 time.Date(2024, time.January, 3, 9, 0, 0, 0, time.UTC),
		OrderDiscountAmount:  decimal.Zero,
		OrderTotalPrice:      dec("600"),
		OrderTotalAdminShare: dec("120"),
	}
	for i := 0; i < items; i++ {
		order.LineItems = append(order.LineItems, report.CourseLineItem{
			CourseName:      fmt.Sprintf("Course%02d", i),
			InstructorName:  "Ada",
			ListPrice:       dec("10"),
			DiscountedPrice: dec("10"),
			AdminShare:      dec("2"),
		})
	}
	rep := &report.Report[report.CourseSaleRow]{
		Kind:   report.KindCourseSales,
		Range:  january(),
		Items:  []report.CourseSaleRow{order},
		Totals: report.Totals{TotalItems: 1, TotalRevenue: dec("600"), TotalAdminShare: dec("120")},
	}

	r := NewRenderer(Config{Location: time.UTC, PDF: PDFOptions{Compress: false}})
	doc, err := r.CourseSales(rep, FormatPDF)
	require.NoError(t, err)

	runs := pdfTexts(doc.Content, true)
	const pt = 72 / 25.4
	pageTop := 210 * pt
	bottom := pdfMarginBottom * pt

	courseItem := regexp.MustCompile(`^Course\d{2}`)
	pageOf := map[string]int{}
	page := 1
	for _, run := range runs {
		if strings.HasPrefix(run.Text, "Page ") {
			page++
			continue
		}
		name := courseItem.FindString(run.Text)
		if name == "" {
			continue
		}
		_, seen := pageOf[name]
		assert.False(t, seen, "%s drawn twice", name)
		pageOf[name] = page
		assert.GreaterOrEqual(t, run.Y, bottom, "%s below the bottom margin", name)
		assert.LessOrEqual(t, run.Y, pageTop, "%s above the page", name)
	}

	require.Len(t, pageOf, items)
	assert.Equal(t, 1, pageOf["Course00"], "the order starts on the first page")
	assert.Equal(t, 2, pageOf[fmt.Sprintf("Course%02d", items-1)], "the order continues on the next page")
	assert.Equal(t, 2, countText(runs, "Order"), "header is repeated on the continuation page")
	assert.Contains(t, textsOf(runs), "Total Revenue: ₹600.00")
}

func TestRenderer_MissingFont(t *testing.T) {
	r := NewRenderer(Config{PDF: PDFOptions{FontPath: "/nonexistent/font.ttf"}})
	_, err := r.MembershipSales(&report.Report[report.MembershipSaleRow]{Kind: report.KindMembershipSales}, FormatPDF)
	assert.Error(t, err)
}

func TestRenderer_StudentSlotsSpreadsheet(t *testing.T) {
	start := time.Date(2024, time.January, 20, 9, 0, 0, 0, time.UTC)
	rep := &report.Report[report.StudentSlotRow]{
		Kind:  report.KindStudentSlots,
		Range: january(),
		Items: []report.StudentSlotRow{{
			BookingID:      uuid.New(),
			BookedAt:       time.Date(2024, time.January, 10, 8, 0, 0, 0, time.UTC),
			SlotStart:      start,
			SlotEnd:        start.Add(time.Hour),
			InstructorName: report.UnknownInstructor,
			Price:          dec("40"),
			Status:         "booked",
		}},
		Totals: report.Totals{TotalItems: 1, TotalRevenue: dec("40")},
	}

	doc, err := newTestRenderer().StudentSlots(rep, FormatExcel)
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(doc.Content))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("My Slot Bookings", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 2)
	assert.Equal(t, "10 Jan 2024 08:00", rows[1][1])
	assert.Equal(t, "20 Jan 2024 09:00 - 10:00", rows[1][2])
	assert.Equal(t, report.UnknownInstructor, rows[1][3])
	assert.Equal(t, "Booked", rows[1][4])
	assert.True(t, dec("40").Equal(dec(rows[1][5])))
}

func TestDocument_WriteTo(t *testing.T) {
	doc := &Document{Format: FormatPDF, Content: []byte("%PDF-1.3")}
	var buf bytes.Buffer
	n, err := doc.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)
	assert.Equal(t, "%PDF-1.3", buf.String())
	assert.Equal(t, 8, doc.Size())
}

// pdfText is one text run of an uncompressed PDF, positioned in points from
// the bottom left corner of its page
type pdfText struct {
	X, Y float64
	Text string
}

var pdfTextRun = regexp.MustCompile(`BT (-?[0-9.]+) (-?[0-9.]+) Td \(((?:\\.|[^\\)])*)\)Tj ET`)

// pdfTexts lists the text runs in drawing order. Runs set in a UTF-8 font
// are UTF-16BE encoded.
func pdfTexts(content []byte, utf16BE bool) []pdfText {
	var out []pdfText
	for _, m := range pdfTextRun.FindAllSubmatch(content, -1) {
		x, _ := strconv.ParseFloat(string(m[1]), 64)
		y, _ := strconv.ParseFloat(string(m[2]), 64)
		raw := unescapePDF(m[3])
		text := string(raw)
		if utf16BE {
			units := make([]uint16, 0, len(raw)/2)
			for i := 0; i+1 < len(raw); i += 2 {
				units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
			}
			text = string(utf16.Decode(units))
		}
		out = append(out, pdfText{X: x, Y: y, Text: text})
	}
	return out
}

func unescapePDF(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == '\\' && i+1 < len(b) {
			i++
			if b[i] == 'r' {
				out = append(out, '\r')
				continue
			}
		}
		out = append(out, b[i])
	}
	return out
}

func textsOf(runs []pdfText) []string {
	out := make([]string, len(runs))
	for i, r := range runs {
		out[i] = r.Text
	}
	return out
}

func countText(runs []pdfText, text string) int {
	n := 0
	for _, r := range runs {
		if r.Text == text {
			n++
		}
	}
	return n
}
