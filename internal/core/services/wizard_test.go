package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragplay/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragplay/internal/core/domain"
	"github.com/custodia-labs/ragplay/internal/core/ports/driving"
)

var sentenceTransformers = domain.EmbeddingModel{
	Service: domain.ServiceSentenceTransformers,
	Model:   "all-MiniLM-L6-v2",
}

func newWizardFixture(t *testing.T, opts ...FlowOption) (*PlaygroundWizard, *Session, domain.Document) {
	t.Helper()
	backend := memory.NewBackend()
	session := NewSession(backend)
	docs := NewDocumentService(backend, session)
	wizard := NewPlaygroundWizard(NewPlaygroundService(backend, session), docs, opts...)
	doc, err := docs.Upload(context.Background(), "a.pdf", strings.NewReader(testCorpus))
	require.NoError(t, err)
	return wizard, session, doc
}

func TestPlaygroundWizard_HappyPath(t *testing.T) {
	wizard, session, doc := newWizardFixture(t)
	ctx := context.Background()

	assert.Equal(t, 2, wizard.PageCount())
	assert.Equal(t, driving.WizardPageEmbeddings, wizard.PageName())
	assert.False(t, wizard.CanAdvance())
	assert.Equal(t, driving.AdvanceBlocked, wizard.Advance(ctx).Status)

	require.NoError(t, wizard.SelectService(sentenceTransformers))
	out := wizard.Advance(ctx)
	assert.Equal(t, driving.AdvanceMoved, out.Status)
	assert.Equal(t, driving.WizardPageDocuments, wizard.PageName())
	assert.Equal(t, driving.AdvanceBlocked, wizard.Advance(ctx).Status)

	wizard.ToggleDocument(doc.ID)
	out = wizard.Advance(ctx)
	require.NoError(t, out.Err)
	assert.Equal(t, driving.AdvanceMoved, out.Status)
	assert.Equal(t, 1, out.To)

	pg, ok := wizard.Created()
	require.True(t, ok)
	assert.Equal(t, domain.ServiceSentenceTransformers, pg.Service)
	assert.Equal(t, pg.ID, session.ActivePlayground())

	wizard.Reset()
	assert.Equal(t, 0, wizard.Page())
	assert.Empty(t, wizard.SelectedService())
	assert.Empty(t, wizard.SelectedDocuments())
	_, ok = wizard.Created()
	assert.False(t, ok)
}

func TestPlaygroundWizard_SelectServiceNeedsKey(t *testing.T) {
	wizard, _, _ := newWizardFixture(t)

	err := wizard.SelectService(domain.EmbeddingModel{Service: domain.ServiceOpenAI, APIKey: true})
	assert.ErrorIs(t, err, domain.ErrAPIKeyRequired)
	assert.Empty(t, wizard.SelectedService())
}

func TestPlaygroundWizard_ToggleAndRemoveDocument(t *testing.T) {
	wizard, _, doc := newWizardFixture(t)

	wizard.ToggleDocument("x")
	wizard.ToggleDocument(doc.ID)
	wizard.ToggleDocument("x")
	assert.Equal(t, []string{doc.ID}, wizard.SelectedDocuments())

	require.NoError(t, wizard.RemoveDocument(context.Background(), doc.ID))
	assert.Empty(t, wizard.SelectedDocuments())

	assert.Error(t, wizard.RemoveDocument(context.Background(), doc.ID))
}

func TestPlaygroundWizard_CreateFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("advance on failure", func(t *testing.T) {
		wizard, _, doc := newWizardFixture(t)
		require.NoError(t, wizard.SelectService(sentenceTransformers))
		wizard.Advance(ctx)
		wizard.ToggleDocument(doc.ID)
		wizard.ToggleDocument("missing")

		out := wizard.Advance(ctx)
		assert.Equal(t, driving.AdvanceMoved, out.Status)
		assert.Error(t, out.Err)
		_, ok := wizard.Created()
		assert.False(t, ok)
		assert.False(t, wizard.Busy())
	})

	t.Run("stay on failure", func(t *testing.T) {
		wizard, _, doc := newWizardFixture(t, WithFailurePolicy(StayOnFailure))
		require.NoError(t, wizard.SelectService(sentenceTransformers))
		wizard.Advance(ctx)
		wizard.ToggleDocument("missing")
		wizard.ToggleDocument(doc.ID)

		out := wizard.Advance(ctx)
		assert.Equal(t, driving.AdvanceHeld, out.Status)
		assert.Equal(t, driving.WizardPageDocuments, wizard.PageName())
	})
}

func TestPlaygroundWizard_Retreat(t *testing.T) {
	wizard, _, _ := newWizardFixture(t)
	assert.False(t, wizard.Retreat())

	require.NoError(t, wizard.SelectService(sentenceTransformers))
	wizard.Advance(context.Background())
	assert.True(t, wizard.Retreat())
	assert.Equal(t, driving.WizardPageEmbeddings, wizard.PageName())
	assert.Equal(t, domain.ServiceSentenceTransformers, wizard.SelectedService())
}
