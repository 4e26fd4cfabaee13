// Package dummydb provides in-memory repository implementations, used by tests and
// for running the API without a database.
package dummydb

import (
	"sort"
	"sync"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/assignment"
	"github.com/trezcool/ufundi/core/catalog"
	"github.com/trezcool/ufundi/core/curriculum"
	"github.com/trezcool/ufundi/core/decision"
	"github.com/trezcool/ufundi/core/enrollment"
	"github.com/trezcool/ufundi/core/memoir"
)

type DB struct {
	sync.RWMutex
	seq int

	institutions map[int]*catalog.Institution
	specialties  map[int]*catalog.Specialty
	modules      map[int]*catalog.Module
	teachers     map[int]*catalog.Teacher
	trainees     map[int]*catalog.Trainee
	offers       map[int]*catalog.TrainingOffer
	assignments  map[int]*assignment.Assignment
	programmes   map[int]*curriculum.Programme
	courses      map[int]*curriculum.Course
	enrollments  map[int]*enrollment.Enrollment
	memoirs      map[int]*memoir.Memoir
	records      []decision.Record
}

func NewDB() *DB {
	return &DB{
		institutions: make(map[int]*catalog.Institution),
		specialties:  make(map[int]*catalog.Specialty),
		modules:      make(map[int]*catalog.Module),
		teachers:     make(map[int]*catalog.Teacher),
		trainees:     make(map[int]*catalog.Trainee),
		offers:       make(map[int]*catalog.TrainingOffer),
		assignments:  make(map[int]*assignment.Assignment),
		programmes:   make(map[int]*curriculum.Programme),
		courses:      make(map[int]*curriculum.Course),
		enrollments:  make(map[int]*enrollment.Enrollment),
		memoirs:      make(map[int]*memoir.Memoir),
	}
}

// nextID must be called with the write lock held.
func (db *DB) nextID() int {
	db.seq++
	return db.seq
}

// Fixture helpers

func (db *DB) AddInstitution(inst catalog.Institution) catalog.Institution {
	db.Lock()
	defer db.Unlock()
	if inst.ID == 0 {
		inst.ID = db.nextID()
	}
	db.institutions[inst.ID] = &inst
	return inst
}

func (db *DB) AddSpecialty(sp catalog.Specialty) catalog.Specialty {
	db.Lock()
	defer db.Unlock()
	if sp.ID == 0 {
		sp.ID = db.nextID()
	}
	db.specialties[sp.ID] = &sp
	return sp
}

func (db *DB) AddModule(mod catalog.Module) catalog.Module {
	db.Lock()
	defer db.Unlock()
	if mod.ID == 0 {
		mod.ID = db.nextID()
	}
	db.modules[mod.ID] = &mod
	return mod
}

func (db *DB) AddTeacher(t catalog.Teacher) catalog.Teacher {
	db.Lock()
	defer db.Unlock()
	if t.ID == 0 {
		t.ID = db.nextID()
	}
	db.teachers[t.ID] = &t
	return t
}

func (db *DB) AddTrainee(t catalog.Trainee) catalog.Trainee {
	db.Lock()
	defer db.Unlock()
	if t.ID == 0 {
		t.ID = db.nextID()
	}
	db.trainees[t.ID] = &t
	return t
}

func (db *DB) AddOffer(o catalog.TrainingOffer) catalog.TrainingOffer {
	db.Lock()
	defer db.Unlock()
	if o.ID == 0 {
		o.ID = db.nextID()
	}
	db.offers[o.ID] = &o
	return o
}

func (db *DB) AddAssignment(asg assignment.Assignment) assignment.Assignment {
	db.Lock()
	defer db.Unlock()
	if asg.ID == 0 {
		asg.ID = db.nextID()
	}
	db.assignments[asg.ID] = &asg
	return asg
}

func (db *DB) AddProgramme(prog curriculum.Programme) curriculum.Programme {
	db.Lock()
	defer db.Unlock()
	if prog.ID == 0 {
		prog.ID = db.nextID()
	}
	db.programmes[prog.ID] = &prog
	return prog
}

func (db *DB) AddCourse(course curriculum.Course) curriculum.Course {
	db.Lock()
	defer db.Unlock()
	if course.ID == 0 {
		course.ID = db.nextID()
	}
	db.courses[course.ID] = &course
	return course
}

func (db *DB) AddEnrollment(enr enrollment.Enrollment) enrollment.Enrollment {
	db.Lock()
	defer db.Unlock()
	if enr.ID == 0 {
		enr.ID = db.nextID()
	}
	db.enrollments[enr.ID] = &enr
	return enr
}

func (db *DB) AddMemoir(mem memoir.Memoir) memoir.Memoir {
	db.Lock()
	defer db.Unlock()
	if mem.ID == 0 {
		mem.ID = db.nextID()
	}
	db.memoirs[mem.ID] = &mem
	return mem
}

// ordering helpers

func orderAscending(ordering []core.DBOrdering) bool {
	for _, ord := range ordering {
		if ord.Field == "id" {
			return ord.Ascending
		}
	}
	return true
}

func sortIDs(ids []int, ordering []core.DBOrdering) {
	if orderAscending(ordering) {
		sort.Ints(ids)
		return
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))
}
