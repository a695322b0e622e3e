package mysql

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

// IsActive没有数据库默认值，Create时false会原样写入，停用的记录不会被存成启用
func TestModels_IsActiveHasNoDefault(t *testing.T) {
	models := []interface{}{&StoreModel{}, &ProductModel{}, &BatchModel{}, &CustomerModel{}}

	for _, m := range models {
		s, err := schema.Parse(m, &sync.Map{}, schema.NamingStrategy{})
		require.NoError(t, err)

		field := s.LookUpField("IsActive")
		require.NotNil(t, field, s.Name)
		assert.False(t, field.HasDefaultValue, "%s.IsActive", s.Name)
		assert.Empty(t, field.DefaultValue, "%s.IsActive", s.Name)
	}
}
