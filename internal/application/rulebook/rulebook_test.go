package rulebook

import (
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xuankong-api/internal/domain/entity"
	apperrors "xuankong-api/pkg/errors"
)

func TestEmbeddedRulebookLoads(t *testing.T) {
	book, err := NewRegistry().Book()
	require.NoError(t, err)

	assert.NotEmpty(t, book.Diagnostic.Rules)
	assert.Equal(t, 10, book.Diagnostic.BaselineHarm)
	assert.ElementsMatch(t, []entity.Star{2, 3, 5, 7}, book.Diagnostic.HarmfulVisitors)
	assert.Contains(t, book.Diagnostic.RoomImpacts, entity.RoomBedroom)

	assert.NotEmpty(t, book.Chengmen.Rules)
	assert.Len(t, book.Chengmen.GenericTaboos, 3)
	assert.Equal(t, "CNY", book.Remedies.Currency)
	assert.Equal(t, entity.DirectionWest, book.KeyPositions.RomanceByBranch["子"])
}

func TestChengmenMountainFiltersDecodeByName(t *testing.T) {
	book := Default()
	var found bool
	for _, r := range book.Chengmen.Rules {
		if r.ID == "p8-ding-kan" {
			found = true
			assert.Equal(t, []entity.Mountain{entity.MountainZi, entity.MountainGui, entity.MountainRen}, r.Trigger.SittingMountains)
			assert.Equal(t, entity.Star(8), r.Trigger.MountainStar)
		}
	}
	assert.True(t, found)
}

func TestRemedyTemplateFallback(t *testing.T) {
	book := Default()
	assert.Equal(t, "五黄煞", book.Remedies.Template("wuhuang").Label)
	assert.Equal(t, "通用化解", book.Remedies.Template("no-such-type").Label)
}

func TestRegistryCachesBook(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	books := make([]*Rulebook, 8)
	for i := range books {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := reg.Book()
			assert.NoError(t, err)
			books[i] = b
		}(i)
	}
	wg.Wait()
	for _, b := range books {
		assert.Same(t, books[0], b)
	}
}

func TestLoadRejectsBrokenTable(t *testing.T) {
	fsys := fstest.MapFS{}
	for _, name := range []string{diagnosticFile, chengmenFile, remediesFile, keyPositionsFile} {
		b, err := dataFS.ReadFile(name)
		require.NoError(t, err)
		fsys[name] = &fstest.MapFile{Data: b}
	}
	fsys[remediesFile] = &fstest.MapFile{Data: []byte("currency: CNY\ntemplates: {}\n")}

	_, err := Load(fsys)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeRuleTableError))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(fstest.MapFS{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeRuleTableError))
}

func TestNilRegistry(t *testing.T) {
	var reg *Registry
	_, err := reg.Book()
	assert.Error(t, err)
}
