package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/kh4lidmd/portfolio-backend/internal/assets"
	"github.com/kh4lidmd/portfolio-backend/internal/models"
)

// PostgresStore implements Store on PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// Connect establishes the connection, applies pool settings and bootstraps
// the schema.
func Connect(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &PostgresStore{db: db}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logrus.Info("connected to PostgreSQL")
	return s, nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }

func (s *PostgresStore) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS projects (
		id UUID PRIMARY KEY,
		title VARCHAR(120) NOT NULL,
		slug VARCHAR(140) NOT NULL UNIQUE,
		description TEXT NOT NULL,
		tech_stack JSONB NOT NULL DEFAULT '[]',
		repo_url VARCHAR(500),
		live_url VARCHAR(500),
		featured BOOLEAN NOT NULL DEFAULT false,
		display_order INT NOT NULL DEFAULT 0,
		images JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS skills (
		id UUID PRIMARY KEY,
		name VARCHAR(60) NOT NULL,
		category VARCHAR(30) NOT NULL,
		proficiency INT NOT NULL,
		icon JSONB,
		display_order INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS contact_messages (
		id UUID PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		subject VARCHAR(150),
		body TEXT NOT NULL,
		read BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS admin_users (
		id UUID PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(100) NOT NULL,
		last_login_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_projects_order ON projects(featured DESC, display_order ASC);
	CREATE INDEX IF NOT EXISTS idx_skills_order ON skills(category, display_order ASC);
	CREATE INDEX IF NOT EXISTS idx_contacts_created ON contact_messages(created_at DESC);
	`
	_, err := s.db.Exec(query)
	return err
}

// --- Projects ---

func (s *PostgresStore) SaveProject(p *models.Project) error {
	techStack, err := json.Marshal(p.TechStack)
	if err != nil {
		return err
	}
	images, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO projects (id, title, slug, description, tech_stack, repo_url, live_url, featured, display_order, images, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	ON CONFLICT (id) DO UPDATE SET
		title = EXCLUDED.title,
		slug = EXCLUDED.slug,
		description = EXCLUDED.description,
		tech_stack = EXCLUDED.tech_stack,
		repo_url = EXCLUDED.repo_url,
		live_url = EXCLUDED.live_url,
		featured = EXCLUDED.featured,
		display_order = EXCLUDED.display_order,
		images = EXCLUDED.images,
		updated_at = NOW()
	`
	_, err = s.db.Exec(query,
		p.ID, p.Title, p.Slug, p.Description, techStack,
		p.RepoURL, p.LiveURL, p.Featured, p.DisplayOrder, images, p.CreatedAt,
	)
	return err
}

const projectColumns = `id, title, slug, description, tech_stack, COALESCE(repo_url, ''), COALESCE(live_url, ''), featured, display_order, images, created_at, updated_at`

func (s *PostgresStore) GetProject(id string) (models.Project, bool) {
	row := s.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

func (s *PostgresStore) GetProjectBySlug(slug string) (models.Project, bool) {
	row := s.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE slug = $1`, slug)
	return scanProject(row)
}

func (s *PostgresStore) ListProjects() ([]models.Project, error) {
	rows, err := s.db.Query(`SELECT ` + projectColumns + ` FROM projects ORDER BY featured DESC, display_order ASC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		if p, ok := scanProject(rows); ok {
			projects = append(projects, p)
		}
	}
	return projects, rows.Err()
}

// DeleteProject removes the row and returns it so the caller can cascade
// the asset deletes.
func (s *PostgresStore) DeleteProject(id string) (models.Project, bool) {
	row := s.db.QueryRow(`DELETE FROM projects WHERE id = $1 RETURNING `+projectColumns, id)
	return scanProject(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (models.Project, bool) {
	var p models.Project
	var techStack, images []byte
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &techStack,
		&p.RepoURL, &p.LiveURL, &p.Featured, &p.DisplayOrder, &images,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err != sql.ErrNoRows {
			logrus.Errorf("failed to scan project row: %v", err)
		}
		return models.Project{}, false
	}
	if err := json.Unmarshal(techStack, &p.TechStack); err != nil {
		logrus.Warnf("bad tech_stack payload for project %s: %v", p.ID, err)
	}
	if err := json.Unmarshal(images, &p.Images); err != nil {
		logrus.Warnf("bad images payload for project %s: %v", p.ID, err)
	}
	return p, true
}

// --- Skills ---

func (s *PostgresStore) SaveSkill(sk *models.Skill) error {
	var icon []byte
	if sk.Icon != nil {
		var err error
		if icon, err = json.Marshal(sk.Icon); err != nil {
			return err
		}
	}

	query := `
	INSERT INTO skills (id, name, category, proficiency, icon, display_order, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		category = EXCLUDED.category,
		proficiency = EXCLUDED.proficiency,
		icon = EXCLUDED.icon,
		display_order = EXCLUDED.display_order,
		updated_at = NOW()
	`
	_, err := s.db.Exec(query, sk.ID, sk.Name, sk.Category, sk.Proficiency, icon, sk.DisplayOrder, sk.CreatedAt)
	return err
}

func (s *PostgresStore) GetSkill(id string) (models.Skill, bool) {
	row := s.db.QueryRow(`SELECT id, name, category, proficiency, icon, display_order, created_at, updated_at FROM skills WHERE id = $1`, id)
	return scanSkill(row)
}

func (s *PostgresStore) ListSkills() ([]models.Skill, error) {
	rows, err := s.db.Query(`SELECT id, name, category, proficiency, icon, display_order, created_at, updated_at FROM skills ORDER BY category, display_order ASC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := make([]models.Skill, 0)
	for rows.Next() {
		if sk, ok := scanSkill(rows); ok {
			skills = append(skills, sk)
		}
	}
	return skills, rows.Err()
}

func (s *PostgresStore) DeleteSkill(id string) bool {
	res, err := s.db.Exec(`DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		logrus.Errorf("failed to delete skill %s: %v", id, err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func scanSkill(row rowScanner) (models.Skill, bool) {
	var sk models.Skill
	var icon []byte
	err := row.Scan(&sk.ID, &sk.Name, &sk.Category, &sk.Proficiency, &icon, &sk.DisplayOrder, &sk.CreatedAt, &sk.UpdatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logrus.Errorf("failed to scan skill row: %v", err)
		}
		return models.Skill{}, false
	}
	if len(icon) > 0 {
		var asset assets.StoredAsset
		if err := json.Unmarshal(icon, &asset); err == nil {
			sk.Icon = &asset
		}
	}
	return sk, true
}

// --- Contact messages ---

func (s *PostgresStore) SaveContact(m *models.ContactMessage) error {
	query := `
	INSERT INTO contact_messages (id, name, email, subject, body, read, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.Exec(query, m.ID, m.Name, m.Email, m.Subject, m.Body, m.Read, m.CreatedAt)
	return err
}

func (s *PostgresStore) ListContacts(unreadOnly bool) ([]models.ContactMessage, error) {
	query := `SELECT id, name, email, COALESCE(subject, ''), body, read, created_at FROM contact_messages`
	if unreadOnly {
		query += ` WHERE read = false`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.ContactMessage, 0)
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			logrus.Errorf("failed to scan contact row: %v", err)
			continue
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *PostgresStore) MarkContactRead(id string) bool {
	res, err := s.db.Exec(`UPDATE contact_messages SET read = true WHERE id = $1`, id)
	if err != nil {
		logrus.Errorf("failed to mark contact %s read: %v", id, err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *PostgresStore) DeleteContact(id string) bool {
	res, err := s.db.Exec(`DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		logrus.Errorf("failed to delete contact %s: %v", id, err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

// --- Admin user ---

func (s *PostgresStore) GetAdminByEmail(email string) (models.AdminUser, bool) {
	var u models.AdminUser
	err := s.db.QueryRow(
		`SELECT id, email, password_hash, last_login_at, created_at FROM admin_users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.LastLoginAt, &u.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logrus.Errorf("failed to load admin user: %v", err)
		}
		return models.AdminUser{}, false
	}
	return u, true
}

func (s *PostgresStore) GetAdminByID(id string) (models.AdminUser, bool) {
	var u models.AdminUser
	err := s.db.QueryRow(
		`SELECT id, email, password_hash, last_login_at, created_at FROM admin_users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.LastLoginAt, &u.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logrus.Errorf("failed to load admin user: %v", err)
		}
		return models.AdminUser{}, false
	}
	return u, true
}

// SeedAdmin inserts the admin account on first boot; an existing account is
// left untouched.
func (s *PostgresStore) SeedAdmin(email, passwordHash string) error {
	query := `
	INSERT INTO admin_users (id, email, password_hash)
	VALUES (gen_random_uuid(), $1, $2)
	ON CONFLICT (email) DO NOTHING
	`
	_, err := s.db.Exec(query, email, passwordHash)
	return err
}

func (s *PostgresStore) UpdateAdminPassword(id, passwordHash string) error {
	_, err := s.db.Exec(`UPDATE admin_users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	return err
}

func (s *PostgresStore) TouchAdminLogin(id string) error {
	_, err := s.db.Exec(`UPDATE admin_users SET last_login_at = NOW() WHERE id = $1`, id)
	return err
}
