package core

import "strings"

// Roles
const (
	RoleTeacher = "teacher"
	RoleTrainee = "trainee"

	// Institutions
	RoleInstitution         = "institution:"
	RoleInstitutionRegional = "institution:regional"
	RoleInstitutionNational = "institution:national"
	RoleInstitutionTraining = "institution:training"
)

var AllRoles = []string{
	RoleTeacher,
	RoleTrainee,
	RoleInstitutionRegional,
	RoleInstitutionNational,
	RoleInstitutionTraining,
}

func KnownRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Actor is the authenticated identity initiating an operation. It is handed to us
// by the authentication collaborator (JWT claims); credentials are never checked here.
// SubjectID is the teacher, trainee or institution id depending on Role.
type Actor struct {
	Role      string `json:"role"`
	SubjectID int    `json:"subject_id"`
}

func (a Actor) IsTeacher() bool     { return a.Role == RoleTeacher }
func (a Actor) IsTrainee() bool     { return a.Role == RoleTrainee }
func (a Actor) IsInstitution() bool { return strings.HasPrefix(a.Role, RoleInstitution) }
func (a Actor) IsRegional() bool    { return a.Role == RoleInstitutionRegional }
func (a Actor) IsNational() bool    { return a.Role == RoleInstitutionNational }
func (a Actor) IsTraining() bool    { return a.Role == RoleInstitutionTraining }
