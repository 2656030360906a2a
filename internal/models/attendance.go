package models

import "time"

// Student is one roster entry supplied by the roster source. The engine treats
// it as immutable input; editing the roster is a separate workflow.
type Student struct {
	RollNo        string `db:"roll_no" json:"roll_no"`
	Name          string `db:"name" json:"name"`
	ParentContact string `db:"parent_contact" json:"parent_contact,omitempty"`
}

// AttendanceMark is one student's outcome for one day. Present and Absent are
// mutually exclusive; both false means undecided and is only valid before the
// day is submitted.
type AttendanceMark struct {
	RollNo  string `json:"roll_no"`
	Name    string `json:"name"`
	Present bool   `json:"present"`
	Absent  bool   `json:"absent"`
}

// DailySession is the working sheet for a single day. Marks keep roster order.
// Once Submitted is true the sheet is frozen until the next day's rollover.
type DailySession struct {
	Date      string           `json:"date"`
	Marks     []AttendanceMark `json:"marks"`
	Submitted bool             `json:"submitted"`
}

// FindMark returns a pointer into Marks for the given roll number, or nil.
func (s *DailySession) FindMark(rollNo string) *AttendanceMark {
	for i := range s.Marks {
		if s.Marks[i].RollNo == rollNo {
			return &s.Marks[i]
		}
	}
	return nil
}

// Absentees returns the marks flagged absent, preserving roster order.
func (s *DailySession) Absentees() []AttendanceMark {
	out := make([]AttendanceMark, 0)
	for _, m := range s.Marks {
		if m.Absent {
			out = append(out, m)
		}
	}
	return out
}

// Presentees returns the marks flagged present, preserving roster order.
func (s *DailySession) Presentees() []AttendanceMark {
	out := make([]AttendanceMark, 0)
	for _, m := range s.Marks {
		if m.Present {
			out = append(out, m)
		}
	}
	return out
}

// AttendanceHistory maps canonical day keys to the finalized marks of that day.
// Entries are written once at submission time and never mutated.
type AttendanceHistory map[string][]AttendanceMark

// RankRecord is a read-time projection of one student's cumulative attendance.
// Percentage is rounded half away from zero; never persisted.
type RankRecord struct {
	RollNo     string `json:"roll_no"`
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
}

// Leaderboard is the derived top-N view over the full history. Tied holds every
// ranked student sharing the maximum percentage, which can reach past the top
// three.
type Leaderboard struct {
	Top  []RankRecord `json:"top"`
	Tied []RankRecord `json:"tied"`
}

// Absentee pairs a mark with the parent contact used for the notification batch.
type Absentee struct {
	RollNo        string `json:"roll_no"`
	Name          string `json:"name"`
	ParentContact string `json:"parent_contact"`
}

// ExportArtifact is the stored handle for the most recent day export.
type ExportArtifact struct {
	ID        string    `json:"id"`
	Day       string    `json:"day"`
	PDFPath   string    `json:"pdf_path"`
	CSVPath   string    `json:"csv_path"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitResult summarises a successful submission.
type SubmitResult struct {
	Day         string           `json:"day"`
	Marks       []AttendanceMark `json:"marks"`
	AbsentCount int              `json:"absent_count"`
}

// HomeSummary backs the home dashboard: today's key, submission state, the
// absentee count for today and the current leaderboard.
type HomeSummary struct {
	Day             string      `json:"day"`
	ClassDept       string      `json:"class_dept"`
	SectionSemester string      `json:"section_semester"`
	Submitted       bool        `json:"submitted"`
	AbsentCount     int         `json:"absent_count"`
	Leaderboard     Leaderboard `json:"leaderboard"`
}
