package menu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchUseCase_SearchItems(t *testing.T) {
	uc := NewSearchUseCase(NewCatalog(newFakeRepository()))

	resp, err := uc.SearchItems(context.Background(), "b-1", SearchItemsRequest{MenuItemIDs: []string{"pizza", "missing"}})

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "pizza", resp.Items[0].ID)
	assert.True(t, resp.Items[0].SupportsFractional)
	assert.Equal(t, []string{"missing"}, resp.NotFound)
}

func TestSearchUseCase_SearchItems_AllFound(t *testing.T) {
	uc := NewSearchUseCase(NewCatalog(newFakeRepository()))

	resp, err := uc.SearchItems(context.Background(), "b-1", SearchItemsRequest{MenuItemIDs: []string{"soda"}})

	require.NoError(t, err)
	assert.NotNil(t, resp.NotFound)
	assert.Empty(t, resp.NotFound)
}

func TestCatalog_OtherBusinessItemsNotFound(t *testing.T) {
	catalog := NewCatalog(newFakeRepository())

	found, notFound, err := catalog.GetItemsByIDsAndBusiness(context.Background(), []string{"pizza"}, "b-2")

	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Equal(t, []string{"pizza"}, notFound)
}
