package fieldmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpretFiltersUnknownFields(t *testing.T) {
	fields := FieldMap{
		{Name: "decision"},
		{Name: "reason"},
	}
	input := map[string]interface{}{
		"decision":   "Yes",
		"reason":     "crime",
		"unexpected": "drop me",
	}

	answers := Interpret(fields, input)

	assert.Equal(t, map[string]interface{}{
		"decision": "Yes",
		"reason":   "crime",
	}, answers)
}

func TestInterpretOmitsAbsentFields(t *testing.T) {
	fields := FieldMap{
		{Name: "decision"},
		{Name: "reason"},
	}
	input := map[string]interface{}{"decision": "No"}

	answers := Interpret(fields, input)

	assert.Equal(t, map[string]interface{}{"decision": "No"}, answers)
	_, present := answers["reason"]
	assert.False(t, present)
}

func TestInterpretDependentFieldKeptWhenPredicateMatches(t *testing.T) {
	fields := FieldMap{
		{Name: "decision"},
		{Name: "reason", DependentOn: "decision", Predicate: "Yes"},
	}
	input := map[string]interface{}{
		"decision": "Yes",
		"reason":   "crime",
	}

	answers := Interpret(fields, input)

	assert.Equal(t, map[string]interface{}{
		"decision": "Yes",
		"reason":   "crime",
	}, answers)
}

func TestInterpretDependentFieldDroppedWhenPredicateDiffers(t *testing.T) {
	fields := FieldMap{
		{Name: "decision"},
		{Name: "reason", DependentOn: "decision", Predicate: "Yes"},
	}
	input := map[string]interface{}{
		"decision": "No",
		"reason":   "crime",
	}

	answers := Interpret(fields, input)

	assert.Equal(t, map[string]interface{}{"decision": "No"}, answers)
}

func TestInterpretDependentFieldDroppedWhenControllingAbsent(t *testing.T) {
	fields := FieldMap{
		{Name: "decision"},
		{Name: "reason", DependentOn: "decision", Predicate: "Yes"},
	}
	input := map[string]interface{}{"reason": "crime"}

	answers := Interpret(fields, input)

	assert.Equal(t, map[string]interface{}{}, answers)
}

func TestInterpretNestedObject(t *testing.T) {
	fields := FieldMap{
		{Name: "occupier", Contains: FieldMap{
			{Name: "name"},
			{Name: "relationship"},
		}},
	}
	input := map[string]interface{}{
		"occupier": map[string]interface{}{
			"name":         "Frank",
			"relationship": "landlord",
			"age":          "unwanted",
		},
	}

	answers := Interpret(fields, input)

	assert.Equal(t, map[string]interface{}{
		"occupier": map[string]interface{}{
			"name":         "Frank",
			"relationship": "landlord",
		},
	}, answers)
}

func TestInterpretNestedObjectAbsentInputYieldsEmptyObject(t *testing.T) {
	fields := FieldMap{
		{Name: "occupier", Contains: FieldMap{{Name: "name"}}},
	}

	answers := Interpret(fields, map[string]interface{}{})

	assert.Equal(t, map[string]interface{}{
		"occupier": map[string]interface{}{},
	}, answers)
}

func TestInterpretListDropsEmptyItems(t *testing.T) {
	fields := FieldMap{
		{Name: "residents", IsList: true, Contains: FieldMap{
			{Name: "name"},
			{Name: "age"},
		}},
	}
	input := map[string]interface{}{
		"residents": []interface{}{
			map[string]interface{}{"name": "Mary", "age": "21"},
			map[string]interface{}{"name": "", "age": ""},
			map[string]interface{}{"name": "John", "age": ""},
		},
	}

	answers := Interpret(fields, input)

	assert.Equal(t, map[string]interface{}{
		"residents": []interface{}{
			map[string]interface{}{"name": "Mary", "age": "21"},
			map[string]interface{}{"name": "John", "age": ""},
		},
	}, answers)
}

func TestInterpretListFiltersItemFields(t *testing.T) {
	fields := FieldMap{
		{Name: "residents", IsList: true, Contains: FieldMap{
			{Name: "name"},
		}},
	}
	input := map[string]interface{}{
		"residents": []interface{}{
			map[string]interface{}{"name": "Mary", "sneaky": "true"},
		},
	}

	answers := Interpret(fields, input)

	assert.Equal(t, map[string]interface{}{
		"residents": []interface{}{
			map[string]interface{}{"name": "Mary"},
		},
	}, answers)
}

func TestInterpretListLimitedByControllingField(t *testing.T) {
	fields := FieldMap{
		{Name: "singleOccupancy"},
		{
			Name:   "residents",
			IsList: true,
			Contains: FieldMap{
				{Name: "name"},
			},
			LimitedBy: &Limit{
				Field: "singleOccupancy",
				Max:   map[string]int{"Yes": 0},
			},
		},
	}
	input := map[string]interface{}{
		"singleOccupancy": "Yes",
		"residents": []interface{}{
			map[string]interface{}{"name": "Mary"},
			map[string]interface{}{"name": "John"},
		},
	}

	answers := Interpret(fields, input)

	assert.Equal(t, map[string]interface{}{
		"singleOccupancy": "Yes",
		"residents":       []interface{}{},
	}, answers)
}

func TestInterpretListUnlimitedWhenControllingValueUnmapped(t *testing.T) {
	fields := FieldMap{
		{Name: "singleOccupancy"},
		{
			Name:     "residents",
			IsList:   true,
			Contains: FieldMap{{Name: "name"}},
			LimitedBy: &Limit{
				Field: "singleOccupancy",
				Max:   map[string]int{"Yes": 0},
			},
		},
	}
	input := map[string]interface{}{
		"singleOccupancy": "No",
		"residents": []interface{}{
			map[string]interface{}{"name": "Mary"},
			map[string]interface{}{"name": "John"},
		},
	}

	answers := Interpret(fields, input)

	assert.Len(t, answers["residents"], 2)
}

func TestInterpretIsIdempotent(t *testing.T) {
	fields := FieldMap{
		{Name: "decision"},
		{Name: "reason", DependentOn: "decision", Predicate: "Yes"},
		{Name: "occupier", Contains: FieldMap{{Name: "name"}}},
		{Name: "residents", IsList: true, Contains: FieldMap{{Name: "name"}}},
	}
	input := map[string]interface{}{
		"decision": "Yes",
		"reason":   "crime",
		"occupier": map[string]interface{}{"name": "Frank"},
		"residents": []interface{}{
			map[string]interface{}{"name": "Mary"},
		},
	}

	once := Interpret(fields, input)
	twice := Interpret(fields, once)

	assert.Equal(t, once, twice)
}

func TestInterpretNilInput(t *testing.T) {
	fields := FieldMap{{Name: "decision"}}

	answers := Interpret(fields, nil)

	assert.Equal(t, map[string]interface{}{}, answers)
}
