package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/yungbote/recipe-backend/internal/pkg/errors"
	"github.com/yungbote/recipe-backend/internal/pkg/pointers"
)

func TestTagServiceCRUD(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "tags")

	for _, name := range []string{"Breakfast", "Vegan", "Dessert"} {
		_, err := f.tags.Create(as(u.ID), NamedInput{Name: pointers.Ptr(name)})
		require.NoError(t, err)
	}

	list, err := f.tags.List(as(u.ID))
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Vegan", "Dessert", "Breakfast"}, []string{list[0].Name, list[1].Name, list[2].Name})

	_, err = f.tags.Create(as(u.ID), NamedInput{Name: pointers.Ptr(" Vegan ")})
	assert.Equal(t, "already exists", fieldErrors(t, err)["name"])

	_, err = f.tags.Create(as(u.ID), NamedInput{Name: pointers.Ptr("")})
	assert.Equal(t, "may not be blank", fieldErrors(t, err)["name"])
	_, err = f.tags.Create(as(u.ID), NamedInput{})
	assert.Equal(t, "is required", fieldErrors(t, err)["name"])

	dessert := list[1]
	_, err = f.tags.Update(as(u.ID), dessert.ID, NamedInput{Name: pointers.Ptr("Vegan")}, true)
	assert.Equal(t, "already exists", fieldErrors(t, err)["name"])

	renamed, err := f.tags.Update(as(u.ID), dessert.ID, NamedInput{Name: pointers.Ptr("Sweets")}, true)
	require.NoError(t, err)
	assert.Equal(t, "Sweets", renamed.Name)

	same, err := f.tags.Update(as(u.ID), dessert.ID, NamedInput{Name: pointers.Ptr("Sweets")}, false)
	require.NoError(t, err)
	assert.Equal(t, dessert.ID, same.ID)

	_, err = f.tags.Update(as(u.ID), dessert.ID, NamedInput{}, false)
	assert.Equal(t, "is required", fieldErrors(t, err)["name"])

	unchanged, err := f.tags.Update(as(u.ID), dessert.ID, NamedInput{}, true)
	require.NoError(t, err)
	assert.Equal(t, "Sweets", unchanged.Name)

	require.NoError(t, f.tags.Delete(as(u.ID), dessert.ID))
	_, err = f.tags.Get(as(u.ID), dessert.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestTagServiceOwnership(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "tagowner")
	other := f.user(t, "tagother")

	tag, err := f.tags.Create(as(owner.ID), NamedInput{Name: pointers.Ptr("Mine")})
	require.NoError(t, err)

	// Names are unique per owner only.
	_, err = f.tags.Create(as(other.ID), NamedInput{Name: pointers.Ptr("Mine")})
	require.NoError(t, err)

	_, err = f.tags.Get(as(other.ID), tag.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = f.tags.Update(as(other.ID), tag.ID, NamedInput{Name: pointers.Ptr("Stolen")}, true)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.ErrorIs(t, f.tags.Delete(as(other.ID), tag.ID), domainerrors.ErrNotFound)

	got, err := f.tags.Get(as(owner.ID), tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Name)

	_, err = f.tags.List(dbctxWithoutPrincipal())
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestDeleteIngredientUnlinksRecipes(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "unlink")

	in := basicInput("Salad")
	in.Ingredients = descriptors("Lettuce", "Oil")
	rec, err := f.recipes.Create(as(u.ID), in)
	require.NoError(t, err)

	var lettuce uint64
	for _, i := range rec.Ingredients {
		if i.Name == "Lettuce" {
			lettuce = i.ID
		}
	}
	require.NotZero(t, lettuce)
	require.NoError(t, f.ings.Delete(as(u.ID), lettuce))

	got, err := f.recipes.Get(as(u.ID), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Oil"}, ingredientNames(got))
}
