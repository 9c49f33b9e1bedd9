package plan_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fitstack/entitlements/pkg/plan"
)

func TestLimit(t *testing.T) {
	t.Parallel()

	t.Run("bounded", func(t *testing.T) {
		t.Parallel()

		l := plan.Bounded(50)
		assert.False(t, l.IsUnlimited())
		assert.Equal(t, int64(50), l.Value())
		assert.Equal(t, int64(50), l.Wire())
		assert.Equal(t, "50", l.String())
	})

	t.Run("unlimited", func(t *testing.T) {
		t.Parallel()

		l := plan.Unlimited()
		assert.True(t, l.IsUnlimited())
		assert.Equal(t, int64(-1), l.Wire())
		assert.Equal(t, "unlimited", l.String())
	})

	t.Run("negative bound clamps to zero", func(t *testing.T) {
		t.Parallel()

		l := plan.Bounded(-5)
		assert.False(t, l.IsUnlimited())
		assert.Equal(t, int64(0), l.Value())
	})

	t.Run("zero value forbids the resource", func(t *testing.T) {
		t.Parallel()

		var l plan.Limit
		assert.False(t, l.IsUnlimited())
		assert.Equal(t, int64(0), l.Value())
	})
}

func TestLimitJSON(t *testing.T) {
	t.Parallel()

	t.Run("bounded round-trips as integer", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(plan.Bounded(25))
		require.NoError(t, err)
		assert.Equal(t, "25", string(data))

		var l plan.Limit
		require.NoError(t, json.Unmarshal(data, &l))
		assert.Equal(t, plan.Bounded(25), l)
	})

	t.Run("unlimited round-trips as -1", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(plan.Unlimited())
		require.NoError(t, err)
		assert.Equal(t, "-1", string(data))

		var l plan.Limit
		require.NoError(t, json.Unmarshal(data, &l))
		assert.True(t, l.IsUnlimited())
	})

	t.Run("rejects non-integer input", func(t *testing.T) {
		t.Parallel()

		var l plan.Limit
		err := json.Unmarshal([]byte(`"many"`), &l)
		assert.ErrorIs(t, err, plan.ErrInvalidLimit)
	})
}

func TestLimitYAML(t *testing.T) {
	t.Parallel()

	t.Run("integer", func(t *testing.T) {
		t.Parallel()

		var l plan.Limit
		require.NoError(t, yaml.Unmarshal([]byte("10"), &l))
		assert.Equal(t, plan.Bounded(10), l)
	})

	t.Run("minus one", func(t *testing.T) {
		t.Parallel()

		var l plan.Limit
		require.NoError(t, yaml.Unmarshal([]byte("-1"), &l))
		assert.True(t, l.IsUnlimited())
	})

	t.Run("unlimited keyword", func(t *testing.T) {
		t.Parallel()

		var l plan.Limit
		require.NoError(t, yaml.Unmarshal([]byte(`unlimited`), &l))
		assert.True(t, l.IsUnlimited())
	})

	t.Run("rejects other strings", func(t *testing.T) {
		t.Parallel()

		var l plan.Limit
		err := yaml.Unmarshal([]byte(`"lots"`), &l)
		assert.ErrorIs(t, err, plan.ErrInvalidLimit)
	})
}
