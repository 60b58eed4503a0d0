package repository

import (
	"context"
	"testing"

	"hrms-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDepartmentByName_CaseInsensitive(t *testing.T) {
	repo := NewOrgRepo(newTestDB(t))
	ctx := context.Background()

	dept := &models.Department{DeptName: "Engineering"}
	require.NoError(t, repo.CreateDepartment(ctx, dept))

	got, err := repo.FindDepartmentByName(ctx, "ENGINEERING", 0)
	require.NoError(t, err)
	assert.Equal(t, dept.ID, got.ID)

	_, err = repo.FindDepartmentByName(ctx, "engineering", dept.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateDepartment_DuplicateName(t *testing.T) {
	repo := NewOrgRepo(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.CreateDepartment(ctx, &models.Department{DeptName: "HR"}))
	err := repo.CreateDepartment(ctx, &models.Department{DeptName: "HR"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestFindDesignation_NullScope(t *testing.T) {
	repo := NewOrgRepo(newTestDB(t))
	ctx := context.Background()

	dept := &models.Department{DeptName: "Ops"}
	require.NoError(t, repo.CreateDepartment(ctx, dept))

	global := &models.Designation{DesignationName: "Intern"}
	scoped := &models.Designation{DesignationName: "Intern", DeptID: &dept.ID}
	require.NoError(t, repo.CreateDesignation(ctx, global))
	require.NoError(t, repo.CreateDesignation(ctx, scoped))

	got, err := repo.FindDesignation(ctx, "intern", nil, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, global.ID, got.ID)

	got, err = repo.FindDesignation(ctx, "intern", &dept.ID, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, scoped.ID, got.ID)
}

func TestDesignationCounts_GroupsByScope(t *testing.T) {
	repo := NewOrgRepo(newTestDB(t))
	ctx := context.Background()

	dept := &models.Department{DeptName: "Finance"}
	require.NoError(t, repo.CreateDepartment(ctx, dept))
	sub := &models.SubDepartment{DeptID: dept.ID, SubDeptName: "Payroll"}
	require.NoError(t, repo.CreateSubDepartment(ctx, sub))

	for _, name := range []string{"Analyst", "Controller"} {
		require.NoError(t, repo.CreateDesignation(ctx, &models.Designation{DesignationName: name, DeptID: &dept.ID}))
	}
	require.NoError(t, repo.CreateDesignation(ctx, &models.Designation{DesignationName: "Clerk", DeptID: &dept.ID, SubDeptID: &sub.ID}))

	counts, err := repo.DesignationCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)

	bySub := map[bool]int{}
	for _, c := range counts {
		require.NotNil(t, c.DeptID)
		assert.Equal(t, dept.ID, *c.DeptID)
		bySub[c.SubDeptID != nil] = c.N
	}
	assert.Equal(t, 2, bySub[false])
	assert.Equal(t, 1, bySub[true])
}

func TestTransaction_RollsBack(t *testing.T) {
	repo := NewOrgRepo(newTestDB(t))
	ctx := context.Background()

	err := repo.Transaction(ctx, func(tx *OrgRepository) error {
		if err := tx.CreateDepartment(ctx, &models.Department{DeptName: "Temp"}); err != nil {
			return err
		}
		return ErrDuplicate
	})
	require.ErrorIs(t, err, ErrDuplicate)

	depts, err := repo.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Empty(t, depts)
}
