package licence

import (
	"encoding/json"
	"fmt"

	"github.com/hmpps/licence-management-api/internal/licence/model"
	dbmodel "github.com/hmpps/licence-management-api/internal/system/database/model"
	"github.com/hmpps/licence-management-api/internal/system/database/provider"
	"github.com/hmpps/licence-management-api/internal/system/log"
)

var (
	queryGetLicence = dbmodel.DBQuery{
		ID:    "LIC-SEL-01",
		Query: "SELECT ID, NOMIS_ID, LICENCE, STAGE, VERSION FROM LICENCES WHERE NOMIS_ID = ?",
	}

	queryInsertLicence = dbmodel.DBQuery{
		ID:    "LIC-INS-01",
		Query: "INSERT INTO LICENCES (NOMIS_ID, LICENCE, STAGE, VERSION) VALUES (?, ?, ?, 1)",
	}

	queryUpdateLicence = dbmodel.DBQuery{
		ID:    "LIC-UPD-01",
		Query: "UPDATE LICENCES SET LICENCE = ?, VERSION = VERSION + 1 WHERE NOMIS_ID = ?",
	}

	queryUpdateSection = dbmodel.DBQuery{
		ID:    "LIC-UPD-02",
		Query: "UPDATE LICENCES SET LICENCE = JSON_SET(LICENCE, ?, CAST(? AS JSON)), VERSION = VERSION + 1 WHERE NOMIS_ID = ?",
	}

	queryUpdateStage = dbmodel.DBQuery{
		ID:    "LIC-UPD-03",
		Query: "UPDATE LICENCES SET STAGE = ? WHERE NOMIS_ID = ?",
	}
)

// StoreInterface persists licence case records.
type StoreInterface interface {
	GetLicence(nomisID string) (*model.CaseRecord, error)
	CreateLicence(nomisID string, licence model.Licence, stage string) (int64, error)
	UpdateLicence(nomisID string, licence model.Licence) error
	UpdateSection(section, nomisID string, content interface{}) error
	UpdateStage(nomisID, stage string) error
}

type store struct {
	dbClient provider.DBClientInterface
}

func NewStore(dbClient provider.DBClientInterface) StoreInterface {
	return &store{dbClient: dbClient}
}

// GetLicence returns the case record for the offender, or nil when no
// record exists.
func (s *store) GetLicence(nomisID string) (*model.CaseRecord, error) {
	rows, err := s.dbClient.Query(queryGetLicence, nomisID)
	if err != nil {
		return nil, fmt.Errorf("failed to query licence: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return buildCaseRecordFromRow(rows[0])
}

func (s *store) CreateLicence(nomisID string, licence model.Licence, stage string) (int64, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "LicenceStore"))

	document, err := json.Marshal(licence)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal licence: %w", err)
	}

	result, err := s.dbClient.Execute(queryInsertLicence, nomisID, string(document), stage)
	if err != nil {
		return 0, fmt.Errorf("failed to insert licence: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	logger.Debug("Licence record created", log.String("nomisID", nomisID))
	return id, nil
}

func (s *store) UpdateLicence(nomisID string, licence model.Licence) error {
	document, err := json.Marshal(licence)
	if err != nil {
		return fmt.Errorf("failed to marshal licence: %w", err)
	}

	if _, err := s.dbClient.Execute(queryUpdateLicence, string(document), nomisID); err != nil {
		return fmt.Errorf("failed to update licence: %w", err)
	}
	return nil
}

// UpdateSection replaces one top-level section of the stored document
// without rewriting the rest.
func (s *store) UpdateSection(section, nomisID string, content interface{}) error {
	raw, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal section content: %w", err)
	}

	path := "$." + section
	if _, err := s.dbClient.Execute(queryUpdateSection, path, string(raw), nomisID); err != nil {
		return fmt.Errorf("failed to update licence section: %w", err)
	}
	return nil
}

func (s *store) UpdateStage(nomisID, stage string) error {
	if _, err := s.dbClient.Execute(queryUpdateStage, stage, nomisID); err != nil {
		return fmt.Errorf("failed to update licence stage: %w", err)
	}
	return nil
}

func buildCaseRecordFromRow(row map[string]interface{}) (*model.CaseRecord, error) {
	record := &model.CaseRecord{
		ID:      rowInt64(row, "ID"),
		NomisID: rowString(row, "NOMIS_ID"),
		Stage:   rowString(row, "STAGE"),
		Version: int(rowInt64(row, "VERSION")),
	}

	if raw := rowString(row, "LICENCE"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &record.Licence); err != nil {
			return nil, fmt.Errorf("invalid licence document for %s: %w", record.NomisID, err)
		}
	}
	if record.Licence == nil {
		record.Licence = model.Licence{}
	}

	return record, nil
}

func rowString(row map[string]interface{}, key string) string {
	switch v := row[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func rowInt64(row map[string]interface{}, key string) int64 {
	switch v := row[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case []byte:
		var n int64
		fmt.Sscanf(string(v), "%d", &n)
		return n
	case string:
		var n int64
		fmt.Sscanf(v, "%d", &n)
		return n
	default:
		return 0
	}
}
