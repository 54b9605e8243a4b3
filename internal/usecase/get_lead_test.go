package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLeadReturnsHistory(t *testing.T) {
	store := newMemStore()
	leadID, _ := seedLead(t, store)

	details, err := NewGetLeadUseCase(store).Execute(context.Background(), leadID)

	require.NoError(t, err)
	assert.Equal(t, leadID, details.Lead.ID)
	assert.Len(t, details.Metadata, 1)
	assert.Len(t, details.Verifications, 1)
	assert.NotEmpty(t, details.Logs)
}

func TestGetLeadNotFound(t *testing.T) {
	_, err := NewGetLeadUseCase(newMemStore()).Execute(context.Background(), "missing")
	assert.Equal(t, CodeLeadNotFound, domainCode(t, err))
}
