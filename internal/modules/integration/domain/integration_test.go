package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roidash/internal/modules/integration/domain"
	wizarddto "roidash/internal/modules/wizard/dto"
)

func TestBuiltinOptionsPerUseCase(t *testing.T) {
	t.Parallel()
	cs := domain.BuiltinOptions(wizarddto.UseCaseCustomerService)
	require.Len(t, cs, 4)
	assert.Equal(t, "Zendesk", cs[0].Name)
	assert.True(t, cs[0].Recommended)
	assert.Equal(t, 5, cs[0].MetricsCount)

	assert.Len(t, domain.BuiltinOptions(wizarddto.UseCaseSales), 1)
	assert.Len(t, domain.BuiltinOptions(wizarddto.UseCaseMarketing), 1)
	assert.Empty(t, domain.BuiltinOptions(wizarddto.UseCaseFinance))

	cs[0].Name = "mutated"
	assert.Equal(t, "Zendesk", domain.BuiltinOptions(wizarddto.UseCaseCustomerService)[0].Name)
}

func TestMergeOptionsDedupsAndRanksRecommended(t *testing.T) {
	t.Parallel()
	base := []domain.Option{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	extra := []domain.Option{{ID: "a", Name: "Dup"}, {ID: "c", Name: "C", Recommended: true}}
	merged := domain.MergeOptions(base, extra)
	require.Len(t, merged, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{merged[0].ID, merged[1].ID, merged[2].ID})
	assert.Equal(t, "A", merged[1].Name)
}

func TestProgressionClampsAtHundred(t *testing.T) {
	t.Parallel()
	p := domain.Progression{Step: 10}
	assert.Equal(t, 10, p.Next(0))
	assert.Equal(t, 100, p.Next(95))
	assert.Equal(t, 100, p.Next(100))
	assert.Equal(t, 1, domain.Progression{}.Next(0))
}

func TestManifestValidate(t *testing.T) {
	t.Parallel()
	valid := domain.Manifest{Name: "reference", Version: "1.0.0", Binary: "bin/ref", SHA256: strings.Repeat("a", 64), Enabled: true}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.SHA256 = "ABC"
	assert.Error(t, bad.Validate())
	bad = valid
	bad.Binary = ""
	assert.Error(t, bad.Validate())
}
