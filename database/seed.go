package database

import (
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/steve-ongera/Muranga-University-ERP-System/models"
)

// SeedOptions selects what Seed populates.
type SeedOptions struct {
	Clear   bool // wipe existing rows first
	Minimal bool // admin + one programme + two students, no marks
}

const (
	seedAdminPassword   = "Admin@1234"
	seedStudentPassword = "student@123"
)

var seedProgrammes = []models.Programme{
	{Name: "Bachelor of Science in Computer Science", Code: "BSC-CS", DurationYears: 3, HasSemester3: false},
	{Name: "Bachelor of Science in Information Technology", Code: "BSC-IT", DurationYears: 3, HasSemester3: false},
	{Name: "Bachelor of Engineering in Electrical & Electronics", Code: "BEE", DurationYears: 4, HasSemester3: true},
	{Name: "Bachelor of Commerce", Code: "BCOM", DurationYears: 3, HasSemester3: false},
}

type seedUnit struct {
	Code     string
	Name     string
	Year     int
	Semester int
}

var seedUnits = map[string][]seedUnit{
	"BSC-CS": {
		{"CS101", "Introduction to Programming", 1, 1},
		{"CS102", "Mathematics for Computing I", 1, 1},
		{"CS103", "Computer Organisation", 1, 1},
		{"CS104", "Communication Skills", 1, 1},
		{"CS105", "Data Structures & Algorithms", 1, 2},
		{"CS106", "Mathematics for Computing II", 1, 2},
		{"CS107", "Operating Systems", 1, 2},
		{"CS108", "Database Systems", 1, 2},
		{"CS201", "Object Oriented Programming", 2, 1},
		{"CS202", "Computer Networks", 2, 1},
		{"CS203", "Software Engineering", 2, 1},
		{"CS204", "Web Technologies", 2, 1},
		{"CS205", "Artificial Intelligence", 2, 2},
		{"CS206", "Information Security", 2, 2},
		{"CS207", "Mobile Application Development", 2, 2},
		{"CS208", "Research Methods", 2, 2},
	},
	"BSC-IT": {
		{"IT101", "Fundamentals of IT", 1, 1},
		{"IT102", "Mathematics for IT", 1, 1},
		{"IT103", "Computer Hardware & Maintenance", 1, 1},
		{"IT104", "Business Communication", 1, 1},
		{"IT105", "Systems Analysis & Design", 1, 2},
		{"IT106", "Database Management", 1, 2},
		{"IT107", "Web Design", 1, 2},
		{"IT108", "Programming Fundamentals", 1, 2},
		{"IT201", "Network Administration", 2, 1},
		{"IT202", "Enterprise Systems", 2, 1},
		{"IT203", "Cloud Computing", 2, 1},
		{"IT204", "IT Project Management", 2, 1},
		{"IT205", "Cybersecurity", 2, 2},
		{"IT206", "Data Analytics", 2, 2},
		{"IT207", "IT Service Management", 2, 2},
		{"IT208", "Research & Innovation", 2, 2},
	},
	"BEE": {
		// year 1 runs three semesters
		{"EE101", "Engineering Mathematics I", 1, 1},
		{"EE102", "Basic Electrical Engineering", 1, 1},
		{"EE103", "Engineering Drawing", 1, 1},
		{"EE104", "Physics for Engineers", 1, 2},
		{"EE105", "Engineering Mathematics II", 1, 2},
		{"EE106", "Circuit Theory", 1, 2},
		{"EE107", "Workshop Practice", 1, 3},
		{"EE108", "Technical Communication", 1, 3},
		{"EE201", "Electronic Devices & Circuits", 2, 1},
		{"EE202", "Signals & Systems", 2, 1},
		{"EE203", "Digital Electronics", 2, 1},
		{"EE204", "Electromagnetic Fields", 2, 2},
		{"EE205", "Control Systems", 2, 2},
		{"EE206", "Power Systems", 2, 2},
		{"EE207", "Microprocessors & Microcontrollers", 2, 3},
		{"EE208", "Instrumentation", 2, 3},
	},
	"BCOM": {
		{"BC101", "Principles of Accounting", 1, 1},
		{"BC102", "Business Mathematics", 1, 1},
		{"BC103", "Introduction to Economics", 1, 1},
		{"BC104", "Business Communication", 1, 1},
		{"BC105", "Financial Accounting", 1, 2},
		{"BC106", "Business Statistics", 1, 2},
		{"BC107", "Principles of Management", 1, 2},
		{"BC108", "Commercial Law", 1, 2},
		{"BC201", "Cost Accounting", 2, 1},
		{"BC202", "Marketing Management", 2, 1},
		{"BC203", "Business Finance", 2, 1},
		{"BC204", "Entrepreneurship", 2, 1},
		{"BC205", "Auditing", 2, 2},
		{"BC206", "Human Resource Management", 2, 2},
		{"BC207", "Strategic Management", 2, 2},
		{"BC208", "Research Methods", 2, 2},
	},
}

type seedStudent struct {
	First     string
	Last      string
	Username  string
	RegNumber string
	Programme string
	Year      int
}

var seedStudents = []seedStudent{
	{"Alice", "Wanjiru", "alice.wanjiru", "MU/CS/001/2023", "BSC-CS", 1},
	{"Brian", "Mwangi", "brian.mwangi", "MU/CS/002/2023", "BSC-CS", 1},
	{"Carol", "Njeri", "carol.njeri", "MU/CS/003/2023", "BSC-CS", 2},
	{"David", "Kamau", "david.kamau", "MU/CS/004/2023", "BSC-CS", 2},
	{"Esther", "Waithera", "esther.waithera", "MU/IT/001/2023", "BSC-IT", 1},
	{"Francis", "Gitau", "francis.gitau", "MU/IT/002/2023", "BSC-IT", 2},
	{"Grace", "Muthoni", "grace.muthoni", "MU/EE/001/2023", "BEE", 1},
	{"Henry", "Kiprotich", "henry.kiprotich", "MU/EE/002/2023", "BEE", 2},
	{"Irene", "Wambui", "irene.wambui", "MU/BC/001/2023", "BCOM", 1},
	{"James", "Otieno", "james.otieno", "MU/BC/002/2023", "BCOM", 2},
}

// marksTemplate is a fixed (cat /30, exam /70) spread rotated across each
// student's units, with a small per-student perturbation.
var marksTemplate = [][2]float64{
	{24, 58}, // 82 A
	{20, 45}, // 65 B
	{18, 40}, // 58 C
	{22, 52}, // 74 A
	{15, 35}, // 50 C
	{19, 43}, // 62 B
	{25, 60}, // 85 A
	{12, 30}, // 42 D
}

// Seed populates demo data. Every step keys on a natural unique column
// via FirstOrCreate, so running it twice changes nothing.
func Seed(db *gorm.DB, opts SeedOptions) error {
	if opts.Clear {
		log.Println("clearing existing data...")
		for _, m := range []any{
			&models.Mark{}, &models.Student{}, &models.Unit{},
			&models.Programme{}, &models.RevokedToken{}, &models.User{},
		} {
			if err := db.Where("1 = 1").Delete(m).Error; err != nil {
				return err
			}
		}
	}

	if err := seedAdmin(db); err != nil {
		return err
	}

	if opts.Minimal {
		return seedMinimal(db)
	}

	progMap := map[string]models.Programme{}
	for _, p := range seedProgrammes {
		rec := models.Programme{Code: p.Code}
		if err := db.Where("code = ?", p.Code).
			Attrs(models.Programme{Name: p.Name, DurationYears: p.DurationYears, HasSemester3: p.HasSemester3}).
			FirstOrCreate(&rec).Error; err != nil {
			return err
		}
		progMap[p.Code] = rec
	}
	log.Printf("programmes: %d", len(progMap))

	unitMap := map[string]models.Unit{}
	for progCode, units := range seedUnits {
		prog := progMap[progCode]
		for _, u := range units {
			rec := models.Unit{Code: u.Code}
			if err := db.Where("code = ?", u.Code).
				Attrs(models.Unit{Name: u.Name, ProgrammeID: prog.ID, Year: u.Year, Semester: u.Semester}).
				FirstOrCreate(&rec).Error; err != nil {
				return err
			}
			unitMap[u.Code] = rec
		}
	}
	log.Printf("units: %d", len(unitMap))

	var studentRecs []models.Student
	for _, s := range seedStudents {
		rec, err := seedOneStudent(db, s, progMap[s.Programme].ID)
		if err != nil {
			return err
		}
		studentRecs = append(studentRecs, *rec)
	}
	log.Printf("students: %d", len(studentRecs))

	marks := 0
	for idx, st := range studentRecs {
		fixture := seedStudents[idx]
		unitIdx := 0
		for _, u := range seedUnits[fixture.Programme] {
			if u.Year > fixture.Year {
				continue
			}
			tpl := marksTemplate[(idx+unitIdx)%len(marksTemplate)]
			catVar := clamp(tpl[0]+float64(idx%3)-1, 0, 30)
			examVar := clamp(tpl[1]+float64(idx%5)-2, 0, 70)
			unitIdx++

			rec := models.Mark{StudentID: st.ID, UnitID: unitMap[u.Code].ID}
			if err := db.Where("student_id = ? AND unit_id = ?", st.ID, unitMap[u.Code].ID).
				Attrs(models.Mark{CatScore: &catVar, ExamScore: &examVar}).
				FirstOrCreate(&rec).Error; err != nil {
				return err
			}
			marks++
		}
	}
	log.Printf("marks: %d", marks)

	fmt.Println("✅ Seed complete. Login: admin /", seedAdminPassword,
		" students e.g. alice.wanjiru /", seedStudentPassword)
	return nil
}

func seedAdmin(db *gorm.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{Username: "admin"}
	return db.Where("username = ?", "admin").
		Attrs(models.User{
			Password:  string(hash),
			Role:      models.RoleAdmin,
			FirstName: "System",
			LastName:  "Administrator",
			Email:     "admin@muranga.ac.ke",
			Active:    true,
		}).
		FirstOrCreate(&admin).Error
}

func seedMinimal(db *gorm.DB) error {
	prog := models.Programme{Code: "BSC-CS"}
	if err := db.Where("code = ?", "BSC-CS").
		Attrs(models.Programme{Name: "Bachelor of Science in Computer Science", DurationYears: 3}).
		FirstOrCreate(&prog).Error; err != nil {
		return err
	}
	for _, s := range seedStudents[:2] {
		if _, err := seedOneStudent(db, s, prog.ID); err != nil {
			return err
		}
	}
	fmt.Println("✅ Minimal seed complete.")
	return nil
}

func seedOneStudent(db *gorm.DB, s seedStudent, programmeID uint) (*models.Student, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedStudentPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := models.User{Username: s.Username}
	if err := db.Where("username = ?", s.Username).
		Attrs(models.User{
			Password:  string(hash),
			Role:      models.RoleStudent,
			FirstName: s.First,
			LastName:  s.Last,
			Email:     s.Username + "@student.muranga.ac.ke",
			Active:    true,
		}).
		FirstOrCreate(&u).Error; err != nil {
		return nil, err
	}

	rec := models.Student{RegNumber: s.RegNumber}
	if err := db.Where("reg_number = ?", s.RegNumber).
		Attrs(models.Student{
			UserID:      u.ID,
			ProgrammeID: &programmeID,
			YearOfStudy: s.Year,
			Phone:       seedPhone(s.RegNumber),
		}).
		FirstOrCreate(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// seedPhone derives a deterministic Kenyan-looking number from the tail
// of the registration number.
func seedPhone(regNumber string) string {
	tail := regNumber
	if len(tail) > 7 {
		tail = tail[len(tail)-7:]
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, tail)
	for len(digits) < 8 {
		digits = "0" + digits
	}
	phone := "+2547" + digits
	if len(phone) > 13 {
		phone = phone[:13]
	}
	return phone
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
