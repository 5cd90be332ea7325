package export

import (
	"strings"

	"github.com/learnhub/backoffice/internal/domain/report"
)

// Spreadsheets list every line item on its own row; printed tables keep one
// row per order and stack the items inside a multi-line cell.

func subtitle(f Formatter, rng report.DateRange) string {
	return "Period: " + f.Period(rng.Start, rng.End)
}

func courseSalesSheet(rep *report.Report[report.CourseSaleRow], f Formatter) *Table {
	t := &Table{
		Title:    rep.Kind.Title(),
		Subtitle: subtitle(f, rep.Range),
		Columns: []Column{
			{Header: "Order ID", Width: 38},
			{Header: "Date", Width: 18},
			{Header: "Coupon Applied", Width: 16},
			{Header: "Course", Width: 32},
			{Header: "Instructor", Width: 22},
			{Header: "List Price", Width: 14, Money: true},
			{Header: "Offer Price", Width: 14, Money: true},
			{Header: "Discounted Price", Width: 16, Money: true},
			{Header: "Admin Share", Width: 14, Money: true},
			{Header: "Order Total", Width: 14, Money: true},
			{Header: "Order Discount", Width: 16, Money: true},
			{Header: "Order Admin Share", Width: 18, Money: true},
		},
		Summary: courseSalesSummary(rep.Totals),
	}

	for _, order := range rep.Items {
		orderCells := []Cell{
			TextCell(order.OrderID.String()),
			TextCell(f.Date(order.Date)),
			TextCell(yesNo(order.CouponApplied())),
		}
		orderTotals := []Cell{
			MoneyCell(f, order.OrderTotalPrice),
			MoneyCell(f, order.OrderDiscountAmount),
			MoneyCell(f, order.OrderTotalAdminShare),
		}
		if len(order.LineItems) == 0 {
			row := append(append([]Cell{}, orderCells...), make([]Cell, 6)...)
			t.Rows = append(t.Rows, append(row, orderTotals...))
			continue
		}
		for i, item := range order.LineItems {
			lead := make([]Cell, 3)
			tail := make([]Cell, 3)
			if i == 0 {
				lead, tail = orderCells, orderTotals
			}
			row := append([]Cell{}, lead...)
			row = append(row,
				TextCell(item.CourseName),
				TextCell(item.InstructorName),
				MoneyCell(f, item.ListPrice),
				OptionalMoneyCell(f, item.OfferPrice),
				MoneyCell(f, item.DiscountedPrice),
				MoneyCell(f, item.AdminShare),
			)
			t.Rows = append(t.Rows, append(row, tail...))
		}
	}
	return t
}

func courseSalesPrint(rep *report.Report[report.CourseSaleRow], f Formatter) *Table {
	t := &Table{
		Title:    rep.Kind.Title(),
		Subtitle: subtitle(f, rep.Range),
		Columns: []Column{
			{Header: "Order", Width: 24, Align: AlignLeft},
			{Header: "Date", Width: 26, Align: AlignLeft},
			{Header: "Courses", Width: 97, Align: AlignLeft},
			{Header: "Coupon", Width: 20, Align: AlignCenter},
			{Header: "Discount", Width: 34, Align: AlignRight},
			{Header: "Total", Width: 38, Align: AlignRight},
			{Header: "Admin Share", Width: 38, Align: AlignRight},
		},
		Summary: courseSalesSummary(rep.Totals),
		Empty:   "No course sales in this period",
	}
	for _, order := range rep.Items {
		lines := make([]string, len(order.LineItems))
		for i, item := range order.LineItems {
			lines[i] = item.CourseName + " (" + item.InstructorName + ") " + f.Money(item.DiscountedPrice)
		}
		t.Rows = append(t.Rows, []Cell{
			TextCell(ShortID(order.OrderID.String())),
			TextCell(f.Date(order.Date)),
			TextCell(strings.Join(lines, "\n")),
			TextCell(yesNo(order.CouponApplied())),
			MoneyCell(f, order.OrderDiscountAmount),
			MoneyCell(f, order.OrderTotalPrice),
			MoneyCell(f, order.OrderTotalAdminShare),
		})
	}
	return t
}

func courseSalesSummary(totals report.Totals) []SummaryLine {
	return []SummaryLine{
		countLine("Total Orders", totals.TotalItems),
		amountLine("Total Admin Share", totals.TotalAdminShare),
		amountLine("Total Revenue", totals.TotalRevenue),
	}
}

// membershipSalesTable serves both formats since every sale is a single line
func membershipSalesTable(rep *report.Report[report.MembershipSaleRow], f Formatter, forPrint bool) *Table {
	t := &Table{
		Title:    rep.Kind.Title(),
		Subtitle: subtitle(f, rep.Range),
		Columns: []Column{
			{Header: "Order ID", Width: 40, Align: AlignLeft},
			{Header: "Date", Width: 40, Align: AlignLeft},
			{Header: "Plan", Width: 70, Align: AlignLeft},
			{Header: "Instructor", Width: 70, Align: AlignLeft},
			{Header: "Price", Width: 57, Align: AlignRight, Money: true},
		},
		Summary: []SummaryLine{
			countLine("Total Sales", rep.Totals.TotalSales),
			amountLine("Total Revenue", rep.Totals.TotalRevenue),
		},
		Empty: "No membership sales in this period",
	}
	for _, sale := range rep.Items {
		id := sale.OrderID.String()
		if forPrint {
			id = ShortID(id)
		}
		t.Rows = append(t.Rows, []Cell{
			TextCell(id),
			TextCell(f.Date(sale.Date)),
			TextCell(sale.PlanName),
			TextCell(sale.InstructorName),
			MoneyCell(f, sale.Price),
		})
	}
	if !forPrint {
		scaleWidths(t, 0.4)
	}
	return t
}

func studentCoursesSheet(rep *report.Report[report.StudentCourseRow], f Formatter) *Table {
	t := &Table{
		Title:    rep.Kind.Title(),
		Subtitle: subtitle(f, rep.Range),
		Columns: []Column{
			{Header: "Order ID", Width: 38},
			{Header: "Date", Width: 18},
			{Header: "Course", Width: 32},
			{Header: "Instructor", Width: 22},
			{Header: "Price", Width: 14, Money: true},
			{Header: "Original Price", Width: 16, Money: true},
			{Header: "Coupon", Width: 14},
			{Header: "Coupon Discount", Width: 16, Money: true},
			{Header: "Final Price", Width: 14, Money: true},
		},
		Summary: studentCoursesSummary(rep.Totals),
	}
	for _, order := range rep.Items {
		lead := []Cell{TextCell(order.OrderID.String()), TextCell(f.Date(order.Date))}
		tail := []Cell{
			MoneyCell(f, order.OriginalPrice),
			TextCell(Coupon(order.CouponCode)),
			MoneyCell(f, order.CouponDiscount),
			MoneyCell(f, order.FinalPrice),
		}
		if len(order.Courses) == 0 {
			row := append(append([]Cell{}, lead...), make([]Cell, 3)...)
			t.Rows = append(t.Rows, append(row, tail...))
			continue
		}
		for i, course := range order.Courses {
			l, r := make([]Cell, len(lead)), make([]Cell, len(tail))
			if i == 0 {
				l, r = lead, tail
			}
			row := append([]Cell{}, l...)
			row = append(row,
				TextCell(course.CourseName),
				TextCell(course.InstructorName),
				MoneyCell(f, course.Price),
			)
			t.Rows = append(t.Rows, append(row, r...))
		}
	}
	return t
}

func studentCoursesPrint(rep *report.Report[report.StudentCourseRow], f Formatter) *Table {
	t := &Table{
		Title:    rep.Kind.Title(),
		Subtitle: subtitle(f, rep.Range),
		Columns: []Column{
			{Header: "Order", Width: 24, Align: AlignLeft},
			{Header: "Date", Width: 26, Align: AlignLeft},
			{Header: "Courses", Width: 103, Align: AlignLeft},
			{Header: "Original Price", Width: 32, Align: AlignRight},
			{Header: "Coupon", Width: 28, Align: AlignCenter},
			{Header: "Discount", Width: 30, Align: AlignRight},
			{Header: "Final Price", Width: 34, Align: AlignRight},
		},
		Summary: studentCoursesSummary(rep.Totals),
		Empty:   "No course purchases in this period",
	}
	for _, order := range rep.Items {
		lines := make([]string, len(order.Courses))
		for i, c := range order.Courses {
			lines[i] = c.CourseName + " (" + c.InstructorName + ") " + f.Money(c.Price)
		}
		t.Rows = append(t.Rows, []Cell{
			TextCell(ShortID(order.OrderID.String())),
			TextCell(f.Date(order.Date)),
			TextCell(strings.Join(lines, "\n")),
			MoneyCell(f, order.OriginalPrice),
			TextCell(Coupon(order.CouponCode)),
			MoneyCell(f, order.CouponDiscount),
			MoneyCell(f, order.FinalPrice),
		})
	}
	return t
}

func studentCoursesSummary(totals report.Totals) []SummaryLine {
	return []SummaryLine{
		countLine("Total Orders", totals.TotalItems),
		amountLine("Total Spent", totals.TotalRevenue),
	}
}

func studentSlotsTable(rep *report.Report[report.StudentSlotRow], f Formatter, forPrint bool) *Table {
	t := &Table{
		Title:    rep.Kind.Title(),
		Subtitle: subtitle(f, rep.Range),
		Columns: []Column{
			{Header: "Booking ID", Width: 32, Align: AlignLeft},
			{Header: "Booked On", Width: 35, Align: AlignLeft},
			{Header: "Slot", Width: 70, Align: AlignLeft},
			{Header: "Instructor", Width: 60, Align: AlignLeft},
			{Header: "Status", Width: 30, Align: AlignCenter},
			{Header: "Price", Width: 50, Align: AlignRight, Money: true},
		},
		Summary: []SummaryLine{
			countLine("Total Bookings", rep.Totals.TotalItems),
			amountLine("Total Spent", rep.Totals.TotalRevenue),
		},
		Empty: "No slot bookings in this period",
	}
	for _, b := range rep.Items {
		id := b.BookingID.String()
		if forPrint {
			id = ShortID(id)
		}
		t.Rows = append(t.Rows, []Cell{
			TextCell(id),
			TextCell(f.DateTime(b.BookedAt)),
			TextCell(f.Interval(b.SlotStart, b.SlotEnd)),
			TextCell(b.InstructorName),
			TextCell(capitalize(b.Status)),
			MoneyCell(f, b.Price),
		})
	}
	if !forPrint {
		scaleWidths(t, 0.45)
	}
	return t
}

// scaleWidths converts print widths (mm) into spreadsheet character widths
func scaleWidths(t *Table, factor float64) {
	for i := range t.Columns {
		t.Columns[i].Width *= factor
		if t.Columns[i].Width < 12 {
			t.Columns[i].Width = 12
		}
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
