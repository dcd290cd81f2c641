package services

import (
	"testing"

	"padmin/internal/models"
	apperrors "padmin/pkg/errors"
	"padmin/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceService_Create(t *testing.T) {
	db := newTestDB(t)
	svc := NewResourceService(db)

	resource, err := svc.Create(CreateResourceParams{
		ResourceCode: "UserList",
		ResourceName: "用户列表",
		ResourceType: models.ResourceTypePage,
		Path:         "/system/user",
	})
	require.NoError(t, err)
	// component缺省取path
	assert.Equal(t, "/system/user", resource.Component)
	assert.Equal(t, models.StatusEnabled, resource.Status)

	_, err = svc.Create(CreateResourceParams{
		ResourceCode: "UserList",
		ResourceName: "重复",
		ResourceType: models.ResourceTypeMenu,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindDuplicateKey))
}

func TestResourceService_PageRequiresPath(t *testing.T) {
	db := newTestDB(t)
	svc := NewResourceService(db)

	_, err := svc.Create(CreateResourceParams{
		ResourceCode: "NoPath",
		ResourceName: "缺路径",
		ResourceType: models.ResourceTypePage,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.Create(CreateResourceParams{
		ResourceCode: "BadType",
		ResourceName: "类型错误",
		ResourceType: "widget",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestResourceService_DeleteGuards(t *testing.T) {
	db := newTestDB(t)
	mustCreateRole(t, db, "Admin", "管理员")
	parent := mustCreateResource(t, db, CreateResourceParams{
		ResourceCode: "System",
		ResourceName: "系统管理",
		ResourceType: models.ResourceTypeMenu,
	})
	mustCreateResource(t, db, CreateResourceParams{
		ParentID:     parent.ID,
		ResourceCode: "UserList",
		ResourceName: "用户列表",
		ResourceType: models.ResourceTypePage,
		Path:         "/system/user",
	})
	_, err := NewRoleResourceService(db).Grant("Admin", "UserList", "tester")
	require.NoError(t, err)

	svc := NewResourceService(db)

	// 被角色引用的资源不可删除
	_, err = svc.Delete("UserList")
	assert.True(t, apperrors.IsKind(err, apperrors.KindResourceInUse))

	// 存在子资源的资源不可删除
	_, err = svc.Delete("System")
	assert.True(t, apperrors.IsKind(err, apperrors.KindResourceInUse))

	// 先解除授权再删除子节点，父节点随后可删
	require.NoError(t, NewRoleResourceService(db).Revoke("Admin", "UserList"))
	_, err = svc.Delete("UserList")
	require.NoError(t, err)
	_, err = svc.Delete("System")
	require.NoError(t, err)
}

func TestResourceService_Update(t *testing.T) {
	db := newTestDB(t)
	svc := NewResourceService(db)
	mustCreateResource(t, db, CreateResourceParams{
		ResourceCode: "UserList",
		ResourceName: "用户列表",
		ResourceType: models.ResourceTypePage,
		Path:         "/system/user",
	})

	emptyPath := ""
	_, err := svc.Update("UserList", UpdateResourceParams{Path: &emptyPath, Operator: "tester"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	hide := true
	resource, err := svc.Update("UserList", UpdateResourceParams{IsHide: &hide, Status: models.StatusDisabled, Operator: "tester"})
	require.NoError(t, err)
	assert.True(t, resource.IsHide)
	assert.Equal(t, models.StatusDisabled, resource.Status)
}

func TestResourceService_Tree(t *testing.T) {
	db := newTestDB(t)
	svc := NewResourceService(db)

	system := mustCreateResource(t, db, CreateResourceParams{
		ResourceCode: "System",
		ResourceName: "系统管理",
		ResourceType: models.ResourceTypeMenu,
		Sort:         2,
	})
	mustCreateResource(t, db, CreateResourceParams{
		ParentID:     system.ID,
		ResourceCode: "UserList",
		ResourceName: "用户列表",
		ResourceType: models.ResourceTypePage,
		Path:         "/system/user",
	})
	mustCreateResource(t, db, CreateResourceParams{
		ResourceCode: "Dashboard",
		ResourceName: "工作台",
		ResourceType: models.ResourceTypeMenu,
		Sort:         1,
	})

	forest, err := svc.Tree()
	require.NoError(t, err)
	require.Len(t, forest, 2)
	// 根节点按sort升序
	assert.Equal(t, "Dashboard", forest[0].ResourceCode)
	assert.Equal(t, "System", forest[1].ResourceCode)
	require.Len(t, forest[1].Children, 1)
	assert.Equal(t, "UserList", forest[1].Children[0].ResourceCode)

	// 展开森林应还原全部节点，不多不少
	var flat []*models.Resource
	var walk func(nodes []*models.Resource)
	walk = func(nodes []*models.Resource) {
		for _, n := range nodes {
			flat = append(flat, n)
			walk(n.Children)
		}
	}
	walk(forest)
	assert.Len(t, flat, 3)
}

func TestResourceService_Find(t *testing.T) {
	db := newTestDB(t)
	mustCreateResource(t, db, CreateResourceParams{
		ResourceCode: "Dashboard",
		ResourceName: "工作台",
		ResourceType: models.ResourceTypeMenu,
	})
	mustCreateResource(t, db, CreateResourceParams{
		ResourceCode: "UserList",
		ResourceName: "用户列表",
		ResourceType: models.ResourceTypePage,
		Path:         "/system/user",
	})

	resources, total, err := NewResourceService(db).Find(
		ResourceFilter{ResourceType: models.ResourceTypePage},
		&pagination.PageParams{Page: 1, PageSize: 10},
	)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, resources, 1)
	assert.Equal(t, "UserList", resources[0].ResourceCode)
}
