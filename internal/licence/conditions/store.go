package conditions

import (
	"encoding/json"
	"fmt"
	"strings"

	dbmodel "github.com/hmpps/licence-management-api/internal/system/database/model"
	"github.com/hmpps/licence-management-api/internal/system/database/provider"
)

const conditionColumns = "CONDITION_ID, TEXT, USER_INPUT, FIELD_POSITION, GROUP_NAME, SUBGROUP_NAME, DISPLAY_ORDER"

var queryGetActiveConditions = dbmodel.DBQuery{
	ID: "CND-SEL-01",
	Query: "SELECT " + conditionColumns +
		" FROM CONDITIONS WHERE ACTIVE = 1 ORDER BY DISPLAY_ORDER",
}

// StoreInterface reads the additional condition catalog.
type StoreInterface interface {
	GetActive() ([]Condition, error)
	GetByIDs(ids []string) ([]Condition, error)
}

type store struct {
	dbClient provider.DBClientInterface
}

func NewStore(dbClient provider.DBClientInterface) StoreInterface {
	return &store{dbClient: dbClient}
}

// GetActive returns the full selectable catalog in display order.
func (s *store) GetActive() ([]Condition, error) {
	rows, err := s.dbClient.Query(queryGetActiveConditions)
	if err != nil {
		return nil, fmt.Errorf("failed to query conditions: %w", err)
	}
	return buildConditions(rows)
}

// GetByIDs returns the catalog entries for the given ids in display
// order.
func (s *store) GetByIDs(ids []string) ([]Condition, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := dbmodel.DBQuery{
		ID: "CND-SEL-02",
		Query: "SELECT " + conditionColumns +
			" FROM CONDITIONS WHERE CONDITION_ID IN (" + placeholders + ") ORDER BY DISPLAY_ORDER",
	}

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.dbClient.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query conditions by id: %w", err)
	}
	return buildConditions(rows)
}

func buildConditions(rows []map[string]interface{}) ([]Condition, error) {
	conditions := make([]Condition, 0, len(rows))
	for _, row := range rows {
		condition, err := buildConditionFromRow(row)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, condition)
	}
	return conditions, nil
}

func buildConditionFromRow(row map[string]interface{}) (Condition, error) {
	condition := Condition{
		ID:           columnString(row, "CONDITION_ID"),
		Text:         columnString(row, "TEXT"),
		UserInput:    columnString(row, "USER_INPUT"),
		GroupName:    columnString(row, "GROUP_NAME"),
		SubgroupName: columnString(row, "SUBGROUP_NAME"),
		DisplayOrder: columnInt(row, "DISPLAY_ORDER"),
	}

	if raw := columnString(row, "FIELD_POSITION"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &condition.FieldPosition); err != nil {
			return Condition{}, fmt.Errorf("invalid field position for condition %s: %w", condition.ID, err)
		}
	}

	return condition, nil
}

func columnString(row map[string]interface{}, key string) string {
	switch v := row[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func columnInt(row map[string]interface{}, key string) int {
	switch v := row[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case []byte:
		var n int
		fmt.Sscanf(string(v), "%d", &n)
		return n
	case string:
		var n int
		fmt.Sscanf(v, "%d", &n)
		return n
	default:
		return 0
	}
}
