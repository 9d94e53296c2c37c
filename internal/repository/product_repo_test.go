package repository

import (
	"context"
	"testing"

	"retail_sync_v1_202608/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProducts(t *testing.T) (ProductRepository, context.Context) {
	t.Helper()
	db := setupRepoTestDB(t)

	require.NoError(t, db.Create(&model.Product{Code: "AC-RXM50", Name: "大金 變頻冷氣 RXM50"}).Error)
	require.NoError(t, db.Create(&model.Product{Code: "FR_B493", Name: "國際牌 電冰箱 NR-B493"}).Error)
	require.NoError(t, db.Create(&model.Product{Code: "TV100%", Name: "聲寶 液晶電視 100型"}).Error)

	return NewProductRepository(db), context.Background()
}

func TestFindByCode(t *testing.T) {
	repo, ctx := seedProducts(t)

	got, err := repo.FindByCode(ctx, "AC-RXM50")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "大金 變頻冷氣 RXM50", got.Name)

	missing, err := repo.FindByCode(ctx, "NOPE")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFindByCodeContains(t *testing.T) {
	repo, ctx := seedProducts(t)

	got, err := repo.FindByCodeContains(ctx, "RXM50")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "AC-RXM50", got.Code)
}

func TestFindByCodeContainsEscapesWildcards(t *testing.T) {
	repo, ctx := seedProducts(t)

	// "_" 是字面值，不是单字符通配：不得误中 FR_B493 以外的记录
	got, err := repo.FindByCodeContains(ctx, "R_B49")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "FR_B493", got.Code)

	// "%" 同理
	got, err = repo.FindByCodeContains(ctx, "100%")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "TV100%", got.Code)

	// 纯通配模式经转义后不得命中任何记录
	missing, err := repo.FindByCodeContains(ctx, "%%%")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFindByNameTokensAND(t *testing.T) {
	repo, ctx := seedProducts(t)

	// 全部 token 命中
	got, err := repo.FindByNameTokens(ctx, []string{"變頻冷氣", "RXM50"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "AC-RXM50", got.Code)

	// 任一 token 落空即未命中
	missing, err := repo.FindByNameTokens(ctx, []string{"變頻冷氣", "直立式"})
	require.NoError(t, err)
	assert.Nil(t, missing)

	// 空 token 列表直接回无结果
	missing, err = repo.FindByNameTokens(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
