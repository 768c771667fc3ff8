package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"caixa/internal/core/entity"
	"caixa/internal/core/id"
	"caixa/internal/core/types"
)

type mockCatalog struct {
	entity.BaseCatalog
	Code  string      `db:"code" json:"code"`
	Name  string      `db:"name" json:"name"`
	Price types.Money `db:"price" json:"price"`
}

func TestExtractDBColumns_Embedded(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expectedCols := []string{
		"id", "deletion_mark", "version", "code", "name", "price",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
}

func TestStructToMap_Embedded(t *testing.T) {
	cat := mockCatalog{
		BaseCatalog: entity.BaseCatalog{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				DeletionMark: true,
				Version:      5,
			},
		},
		Code:  "PRD-00001",
		Name:  "Rice 1kg",
		Price: types.MustMoney("8.90"),
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "PRD-00001", m["code"])
	assert.Equal(t, "Rice 1kg", m["name"])
	assert.True(t, cat.Price.Equal(m["price"].(types.Money)))
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap("text"))
}
