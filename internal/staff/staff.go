// Package staff describes the employee attendance and leave screens.
package staff

import (
	"net/url"
	"time"

	"github.com/sevadhara/console/internal/export"
	"github.com/sevadhara/console/internal/resource"
	"github.com/sevadhara/console/internal/shared"
)

// AttendanceStatuses lists the attendance dropdown.
var AttendanceStatuses = []string{"Present", "Absent", "HalfDay"}

// Leave options.
var (
	LeaveTypes    = []string{"Casual", "Sick", "Earned", "Unpaid"}
	LeaveStatuses = []string{"Pending", "Approved", "Rejected"}
)

// Attendance is one employee's attendance for a day.
type Attendance struct {
	ID           string `json:"_id,omitempty"`
	EmployeeName string `json:"EmployeeName" validate:"required"`
	MobileNumber string `json:"MobileNumber,omitempty" validate:"omitempty,mobile"`
	Date         string `json:"Date" validate:"required,date"`
	Status       string `json:"Status" validate:"required,oneof=Present Absent HalfDay"`
	InTime       string `json:"InTime,omitempty"`
	OutTime      string `json:"OutTime,omitempty"`
}

// Leave is a leave application.
type Leave struct {
	ID           string `json:"_id,omitempty"`
	EmployeeName string `json:"EmployeeName" validate:"required"`
	MobileNumber string `json:"MobileNumber,omitempty" validate:"omitempty,mobile"`
	LeaveType    string `json:"LeaveType" validate:"required,oneof=Casual Sick Earned Unpaid"`
	FromDate     string `json:"FromDate" validate:"required,date"`
	ToDate       string `json:"ToDate" validate:"required,date"`
	Reason       string `json:"Reason,omitempty" validate:"max=250"`
	Status       string `json:"Status,omitempty" validate:"omitempty,oneof=Pending Approved Rejected"`
}

// Days is the inclusive length of the leave, 0 when the dates are invalid.
func (l Leave) Days() int {
	from, err1 := time.Parse(shared.DateLayout, l.FromDate)
	to, err2 := time.Parse(shared.DateLayout, l.ToDate)
	if err1 != nil || err2 != nil || to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

// AttendanceDescriptor describes the attendance screen.
func AttendanceDescriptor() *resource.Descriptor[Attendance] {
	return &resource.Descriptor[Attendance]{
		Slug:       "attendance",
		Title:      "Employee Attendance",
		Singular:   "Attendance",
		BasePath:   "/staff/attendance",
		Endpoint:   "/api/employee-attendance",
		ExportName: "Employee_Attendance",
		ID:         func(a Attendance) string { return a.ID },
		Search:     func(a Attendance) []string { return []string{a.EmployeeName, a.MobileNumber, a.Status} },
		Columns: []export.Column{
			{Header: "Date", Width: 12},
			{Header: "Employee", Width: 28, MaxLen: 36},
			{Header: "Mobile", Width: 14},
			{Header: "Status", Width: 10},
			{Header: "In", Width: 8},
			{Header: "Out", Width: 8},
		},
		Row: func(a Attendance) []string {
			return []string{a.Date, a.EmployeeName, a.MobileNumber, a.Status, a.InTime, a.OutTime}
		},
		Fields: []resource.Field{
			{Name: "Date", Label: "Date", Type: "date", Required: true},
			{Name: "EmployeeName", Label: "Employee", Required: true},
			{Name: "MobileNumber", Label: "Mobile number", Type: "tel"},
			{Name: "Status", Label: "Status", Type: "select", Options: AttendanceStatuses, Required: true},
			{Name: "InTime", Label: "In time", Type: "time"},
			{Name: "OutTime", Label: "Out time", Type: "time"},
		},
		Bind: func(v url.Values) Attendance {
			return Attendance{
				EmployeeName: resource.FormString(v, "EmployeeName"),
				MobileNumber: resource.FormString(v, "MobileNumber"),
				Date:         resource.FormString(v, "Date"),
				Status:       resource.FormString(v, "Status"),
				InTime:       resource.FormString(v, "InTime"),
				OutTime:      resource.FormString(v, "OutTime"),
			}
		},
		Values: func(a Attendance) url.Values {
			return url.Values{
				"EmployeeName": {a.EmployeeName},
				"MobileNumber": {a.MobileNumber},
				"Date":         {a.Date},
				"Status":       {a.Status},
				"InTime":       {a.InTime},
				"OutTime":      {a.OutTime},
			}
		},
		Check: func(a Attendance) map[string]string {
			if a.InTime != "" && a.OutTime != "" && a.OutTime < a.InTime {
				return map[string]string{"OutTime": "must not be before in time"}
			}
			return nil
		},
	}
}

// LeaveDescriptor describes the leave screen.
func LeaveDescriptor() *resource.Descriptor[Leave] {
	return &resource.Descriptor[Leave]{
		Slug:       "leave",
		Title:      "Employee Leave",
		Singular:   "Leave",
		BasePath:   "/staff/leave",
		Endpoint:   "/api/employee-leave",
		ExportName: "Employee_Leave",
		ID:         func(l Leave) string { return l.ID },
		Search:     func(l Leave) []string { return []string{l.EmployeeName, l.LeaveType, l.Status} },
		Columns: []export.Column{
			{Header: "Employee", Width: 28, MaxLen: 36},
			{Header: "Type", Width: 10},
			{Header: "From", Width: 12},
			{Header: "To", Width: 12},
			{Header: "Days", Width: 6, Numeric: true},
			{Header: "Status", Width: 10},
			{Header: "Reason", Width: 30, MaxLen: 40},
		},
		Row: func(l Leave) []string {
			days := ""
			if n := l.Days(); n > 0 {
				days = resource.Num(float64(n))
			}
			return []string{l.EmployeeName, l.LeaveType, l.FromDate, l.ToDate, days, l.Status, l.Reason}
		},
		Fields: []resource.Field{
			{Name: "EmployeeName", Label: "Employee", Required: true},
			{Name: "MobileNumber", Label: "Mobile number", Type: "tel"},
			{Name: "LeaveType", Label: "Leave type", Type: "select", Options: LeaveTypes, Required: true},
			{Name: "FromDate", Label: "From", Type: "date", Required: true},
			{Name: "ToDate", Label: "To", Type: "date", Required: true},
			{Name: "Status", Label: "Status", Type: "select", Options: LeaveStatuses},
			{Name: "Reason", Label: "Reason", Type: "textarea"},
		},
		Bind: func(v url.Values) Leave {
			return Leave{
				EmployeeName: resource.FormString(v, "EmployeeName"),
				MobileNumber: resource.FormString(v, "MobileNumber"),
				LeaveType:    resource.FormString(v, "LeaveType"),
				FromDate:     resource.FormString(v, "FromDate"),
				ToDate:       resource.FormString(v, "ToDate"),
				Reason:       resource.FormString(v, "Reason"),
				Status:       resource.FormString(v, "Status"),
			}
		},
		Values: func(l Leave) url.Values {
			return url.Values{
				"EmployeeName": {l.EmployeeName},
				"MobileNumber": {l.MobileNumber},
				"LeaveType":    {l.LeaveType},
				"FromDate":     {l.FromDate},
				"ToDate":       {l.ToDate},
				"Reason":       {l.Reason},
				"Status":       {l.Status},
			}
		},
		Prepare: func(l *Leave) {
			if l.Status == "" {
				l.Status = "Pending"
			}
		},
		Check: func(l Leave) map[string]string {
			from, err1 := time.Parse(shared.DateLayout, l.FromDate)
			to, err2 := time.Parse(shared.DateLayout, l.ToDate)
			if err1 == nil && err2 == nil && to.Before(from) {
				return map[string]string{"ToDate": "must not be before the from date"}
			}
			return nil
		},
	}
}
