package service

import (
	"context"
	"testing"

	"hrms-backend/internal/logger"
	"hrms-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrgService(t *testing.T) *OrgService {
	t.Helper()
	return NewOrgService(repository.NewOrgRepo(newTestDB(t)), logger.Nop())
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Human Resources", NormalizeName("  Human   Resources \t"))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestCreateDepartment_GetOrCreate(t *testing.T) {
	svc := newOrgService(t)
	ctx := context.Background()

	first, err := svc.CreateDepartment(ctx, "Engineering", nil, 1)
	require.NoError(t, err)

	again, err := svc.CreateDepartment(ctx, "  engineering ", nil, 2)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	depts, err := svc.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Len(t, depts, 1)

	_, err = svc.CreateDepartment(ctx, "  ", nil, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateDepartment_NameClash(t *testing.T) {
	svc := newOrgService(t)
	ctx := context.Background()

	eng, err := svc.CreateDepartment(ctx, "Engineering", nil, 1)
	require.NoError(t, err)
	_, err = svc.CreateDepartment(ctx, "Sales", nil, 1)
	require.NoError(t, err)

	_, err = svc.UpdateDepartment(ctx, eng.ID, DepartmentInput{DeptName: ptr("SALES")}, 1)
	assert.ErrorIs(t, err, ErrConflict)

	renamed, err := svc.UpdateDepartment(ctx, eng.ID, DepartmentInput{DeptName: ptr("Platform  Engineering")}, 1)
	require.NoError(t, err)
	assert.Equal(t, "Platform Engineering", renamed.DeptName)
	require.NotNil(t, renamed.UpdatedBy)

	_, err = svc.UpdateDepartment(ctx, 999, DepartmentInput{DeptName: ptr("X")}, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_RefusesWithChildren(t *testing.T) {
	svc := newOrgService(t)
	ctx := context.Background()

	res, err := svc.AddAll(ctx, AddAllInput{DeptName: "Ops", SubDeptName: "SRE", DesignationName: "Engineer"}, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteDepartment(ctx, res.Dept.ID), ErrConflict)
	assert.ErrorIs(t, svc.DeleteSubDepartment(ctx, res.SubDept.ID), ErrConflict)

	require.NoError(t, svc.DeleteDesignation(ctx, res.Designation.ID))
	require.NoError(t, svc.DeleteSubDepartment(ctx, res.SubDept.ID))
	require.NoError(t, svc.DeleteDepartment(ctx, res.Dept.ID))

	assert.ErrorIs(t, svc.DeleteDepartment(ctx, res.Dept.ID), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteDesignation(ctx, res.Designation.ID), ErrNotFound)
}

func TestAddAll_Idempotent(t *testing.T) {
	svc := newOrgService(t)
	ctx := context.Background()
	in := AddAllInput{DeptName: "Finance", SubDeptName: "Payroll", DesignationName: "Analyst"}

	first, err := svc.AddAll(ctx, in, 1)
	require.NoError(t, err)
	second, err := svc.AddAll(ctx, in, 1)
	require.NoError(t, err)

	assert.Equal(t, first.Dept.ID, second.Dept.ID)
	assert.Equal(t, first.SubDept.ID, second.SubDept.ID)
	assert.Equal(t, first.Designation.ID, second.Designation.ID)

	_, err = svc.AddAll(ctx, AddAllInput{DeptName: "Legal", SubDeptName: "Contracts"}, 1)
	require.ErrorIs(t, err, ErrInvalidInput)

	// The failed chain rolled back its department
	depts, err := svc.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Len(t, depts, 1)
}

func TestUpdateSubDepartment_Move(t *testing.T) {
	svc := newOrgService(t)
	ctx := context.Background()

	a, err := svc.CreateDepartment(ctx, "A", nil, 1)
	require.NoError(t, err)
	b, err := svc.CreateDepartment(ctx, "B", nil, 1)
	require.NoError(t, err)
	subA, err := svc.CreateSubDepartment(ctx, a.ID, "Team", nil, 1)
	require.NoError(t, err)
	_, err = svc.CreateSubDepartment(ctx, b.ID, "Team", nil, 1)
	require.NoError(t, err)

	_, err = svc.UpdateSubDepartment(ctx, subA.ID, SubDepartmentInput{DeptID: &b.ID}, 1)
	assert.ErrorIs(t, err, ErrConflict)

	moved, err := svc.UpdateSubDepartment(ctx, subA.ID, SubDepartmentInput{DeptID: &b.ID, SubDeptName: ptr("Team Two")}, 1)
	require.NoError(t, err)
	assert.Equal(t, b.ID, moved.DeptID)

	_, err = svc.UpdateSubDepartment(ctx, subA.ID, SubDepartmentInput{DeptID: ptr(uint(999))}, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDesignationScopes(t *testing.T) {
	svc := newOrgService(t)
	ctx := context.Background()

	dept, err := svc.CreateDepartment(ctx, "HR", nil, 1)
	require.NoError(t, err)

	global, err := svc.CreateDesignation(ctx, "Intern", nil, nil, nil, 1)
	require.NoError(t, err)
	scoped, err := svc.CreateDesignation(ctx, "Intern", &dept.ID, nil, nil, 1)
	require.NoError(t, err)
	assert.NotEqual(t, global.ID, scoped.ID)

	again, err := svc.CreateDesignation(ctx, "intern", nil, nil, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, global.ID, again.ID)

	_, err = svc.UpdateDesignation(ctx, global.ID, DesignationInput{DeptID: &dept.ID}, 1)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.CreateDesignation(ctx, "Lead", ptr(uint(999)), nil, nil, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStructure_Counts(t *testing.T) {
	svc := newOrgService(t)
	ctx := context.Background()

	res, err := svc.AddAll(ctx, AddAllInput{DeptName: "Eng", SubDeptName: "Backend", DesignationName: "Dev"}, 1)
	require.NoError(t, err)
	_, err = svc.CreateDesignation(ctx, "Senior Dev", &res.Dept.ID, &res.SubDept.ID, nil, 1)
	require.NoError(t, err)
	_, err = svc.CreateDesignation(ctx, "Director", &res.Dept.ID, nil, nil, 1)
	require.NoError(t, err)
	_, err = svc.CreateSubDepartment(ctx, res.Dept.ID, "Frontend", nil, 1)
	require.NoError(t, err)
	_, err = svc.CreateDepartment(ctx, "Empty", nil, 1)
	require.NoError(t, err)

	tree, err := svc.Structure(ctx, &res.Dept.ID)
	require.NoError(t, err)
	require.Len(t, tree, 1)

	node := tree[0]
	assert.Equal(t, 1, node.DesigCountDirect)
	assert.Equal(t, 3, node.DesigCountTotal)
	require.Len(t, node.SubDepts, 2)
	assert.Equal(t, "Backend", node.SubDepts[0].SubDeptName)
	assert.Equal(t, 2, node.SubDepts[0].DesigCount)
	assert.Equal(t, 0, node.SubDepts[1].DesigCount)

	all, err := svc.Structure(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.Structure(ctx, ptr(uint(999)))
	assert.ErrorIs(t, err, ErrNotFound)
}
