package storage

import "github.com/kh4lidmd/portfolio-backend/internal/models"

// Store defines the persistence contract for the domain entities. Reads
// report existence with a bool; writes return errors.
type Store interface {
	// Projects
	SaveProject(p *models.Project) error
	GetProject(id string) (models.Project, bool)
	GetProjectBySlug(slug string) (models.Project, bool)
	ListProjects() ([]models.Project, error)
	DeleteProject(id string) (models.Project, bool)

	// Skills
	SaveSkill(s *models.Skill) error
	GetSkill(id string) (models.Skill, bool)
	ListSkills() ([]models.Skill, error)
	DeleteSkill(id string) bool

	// Contact messages
	SaveContact(m *models.ContactMessage) error
	ListContacts(unreadOnly bool) ([]models.ContactMessage, error)
	MarkContactRead(id string) bool
	DeleteContact(id string) bool

	// Admin user
	GetAdminByEmail(email string) (models.AdminUser, bool)
	GetAdminByID(id string) (models.AdminUser, bool)
	SeedAdmin(email, passwordHash string) error
	UpdateAdminPassword(id, passwordHash string) error
	TouchAdminLogin(id string) error
}
