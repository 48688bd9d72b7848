// Package store persists assessments, responses, and evidence in SQLite.
//
// The engine itself never touches this package; it exists for the CLI and
// HTTP surfaces that need assessments to survive between invocations.
package store

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/calder/axial/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// Store manages the SQLite database behind assessments.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the database at dbPath and initializes
// the schema. ":memory:" is supported for tests.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// busy_timeout first so subsequent pragmas wait on locks held by
	// concurrent initializers of the same file.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateAssessment creates a new assessment with a generated UUID.
func (s *Store) CreateAssessment(name string, intakeTags []string) (models.Assessment, error) {
	assessment := models.Assessment{
		ID:         uuid.NewString(),
		Name:       name,
		IntakeTags: intakeTags,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	tags, err := json.Marshal(assessment.IntakeTags)
	if err != nil {
		return models.Assessment{}, fmt.Errorf("encode intake tags: %w", err)
	}
	if assessment.IntakeTags == nil {
		tags = []byte("[]")
	}

	_, err = s.db.Exec(
		"INSERT INTO assessments (id, name, intake_tags, created_at) VALUES (?, ?, ?, ?)",
		assessment.ID, assessment.Name, string(tags), assessment.CreatedAt,
	)
	if err != nil {
		return models.Assessment{}, fmt.Errorf("insert assessment: %w", err)
	}
	return assessment, nil
}

// GetAssessment looks up an assessment by ID.
func (s *Store) GetAssessment(id string) (models.Assessment, error) {
	var assessment models.Assessment
	var tags string
	err := s.db.QueryRow(
		"SELECT id, name, intake_tags, created_at FROM assessments WHERE id = ?", id,
	).Scan(&assessment.ID, &assessment.Name, &tags, &assessment.CreatedAt)
	if err != nil {
		return models.Assessment{}, fmt.Errorf("get assessment %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(tags), &assessment.IntakeTags); err != nil {
		return models.Assessment{}, fmt.Errorf("decode intake tags: %w", err)
	}
	return assessment, nil
}

// ListAssessments returns all assessments, newest first.
func (s *Store) ListAssessments() ([]models.Assessment, error) {
	rows, err := s.db.Query("SELECT id, name, intake_tags, created_at FROM assessments ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var out []models.Assessment
	for rows.Next() {
		var assessment models.Assessment
		var tags string
		if err := rows.Scan(&assessment.ID, &assessment.Name, &tags, &assessment.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &assessment.IntakeTags); err != nil {
			return nil, fmt.Errorf("decode intake tags: %w", err)
		}
		out = append(out, assessment)
	}
	return out, rows.Err()
}

// SaveResponse inserts or updates the answer for one question. The
// (assessment, question) pair is the natural key; re-answering replaces the
// previous record.
func (s *Store) SaveResponse(resp models.Response) error {
	origin := resp.Origin
	if origin == "" {
		origin = models.OriginAdaptive
	}

	var confidence any
	if resp.EvidenceConfidence != nil {
		confidence = *resp.EvidenceConfidence
	}

	_, err := s.db.Exec(`
		INSERT INTO responses (assessment_id, question_id, score, evidence_confidence, deferred, origin, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(assessment_id, question_id) DO UPDATE SET
			score = excluded.score,
			evidence_confidence = excluded.evidence_confidence,
			deferred = excluded.deferred,
			origin = excluded.origin,
			updated_at = excluded.updated_at`,
		resp.AssessmentID, resp.QuestionID, resp.Score, confidence,
		boolToInt(resp.Deferred), string(origin), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save response %s/%s: %w", resp.AssessmentID, resp.QuestionID, err)
	}
	return nil
}

// ListResponses returns every response recorded for an assessment.
func (s *Store) ListResponses(assessmentID string) ([]models.Response, error) {
	rows, err := s.db.Query(`
		SELECT assessment_id, question_id, score, evidence_confidence, deferred, origin
		FROM responses WHERE assessment_id = ? ORDER BY question_id`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var out []models.Response
	for rows.Next() {
		var resp models.Response
		var confidence sql.NullFloat64
		var deferred int
		var origin string
		if err := rows.Scan(&resp.AssessmentID, &resp.QuestionID, &resp.Score, &confidence, &deferred, &origin); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		if confidence.Valid {
			v := confidence.Float64
			resp.EvidenceConfidence = &v
		}
		resp.Deferred = deferred != 0
		resp.Origin = models.ResponseOrigin(origin)
		out = append(out, resp)
	}
	return out, rows.Err()
}

// SaveEvidence records (or replaces) the fallback confidence for a question.
func (s *Store) SaveEvidence(ev models.EvidenceResponse) error {
	_, err := s.db.Exec(`
		INSERT INTO evidence (assessment_id, question_id, confidence)
		VALUES (?, ?, ?)
		ON CONFLICT(assessment_id, question_id) DO UPDATE SET confidence = excluded.confidence`,
		ev.AssessmentID, ev.QuestionID, ev.Confidence,
	)
	if err != nil {
		return fmt.Errorf("save evidence %s/%s: %w", ev.AssessmentID, ev.QuestionID, err)
	}
	return nil
}

// ListEvidence returns every evidence record for an assessment.
func (s *Store) ListEvidence(assessmentID string) ([]models.EvidenceResponse, error) {
	rows, err := s.db.Query(
		"SELECT assessment_id, question_id, confidence FROM evidence WHERE assessment_id = ? ORDER BY question_id",
		assessmentID)
	if err != nil {
		return nil, fmt.Errorf("list evidence: %w", err)
	}
	defer rows.Close()

	var out []models.EvidenceResponse
	for rows.Next() {
		var ev models.EvidenceResponse
		if err := rows.Scan(&ev.AssessmentID, &ev.QuestionID, &ev.Confidence); err != nil {
			return nil, fmt.Errorf("scan evidence: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// SaveArchetype inserts or replaces one archetype definition.
func (s *Store) SaveArchetype(def models.ArchetypeDefinition) error {
	strengths, err := json.Marshal(def.Strengths)
	if err != nil {
		return fmt.Errorf("encode strengths: %w", err)
	}
	weaknesses, err := json.Marshal(def.Weaknesses)
	if err != nil {
		return fmt.Errorf("encode weaknesses: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO archetypes (name, description, strengths, weaknesses, peer_comparison)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			strengths = excluded.strengths,
			weaknesses = excluded.weaknesses,
			peer_comparison = excluded.peer_comparison`,
		def.Name, def.Description, string(strengths), string(weaknesses), def.PeerComparison,
	)
	if err != nil {
		return fmt.Errorf("save archetype %s: %w", def.Name, err)
	}
	return nil
}

// ArchetypeDefinitions returns all stored archetype definitions keyed by
// name. Satisfies archetype.Provider, so the store can back the scoring
// engine's archetype lookup.
func (s *Store) ArchetypeDefinitions() (map[string]models.ArchetypeDefinition, error) {
	rows, err := s.db.Query("SELECT name, description, strengths, weaknesses, peer_comparison FROM archetypes")
	if err != nil {
		return nil, fmt.Errorf("list archetypes: %w", err)
	}
	defer rows.Close()

	out := make(map[string]models.ArchetypeDefinition)
	for rows.Next() {
		var def models.ArchetypeDefinition
		var strengths, weaknesses string
		if err := rows.Scan(&def.Name, &def.Description, &strengths, &weaknesses, &def.PeerComparison); err != nil {
			return nil, fmt.Errorf("scan archetype: %w", err)
		}
		if err := json.Unmarshal([]byte(strengths), &def.Strengths); err != nil {
			return nil, fmt.Errorf("decode strengths: %w", err)
		}
		if err := json.Unmarshal([]byte(weaknesses), &def.Weaknesses); err != nil {
			return nil, fmt.Errorf("decode weaknesses: %w", err)
		}
		out[def.Name] = def
	}
	return out, rows.Err()
}

// Definitions aliases ArchetypeDefinitions to satisfy archetype.Provider.
func (s *Store) Definitions() (map[string]models.ArchetypeDefinition, error) {
	return s.ArchetypeDefinitions()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
