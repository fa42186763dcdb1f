package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/idehint/internal/introspect"
	"github.com/toyz/idehint/internal/models"
)

func newTestClassRegistry(t *testing.T) *ClassRegistry {
	t.Helper()

	r := NewClassRegistry("")
	require.NoError(t, r.RegisterController(ControllerRecord{
		FQCN:       `App\Controller\AppController`,
		Extends:    `Cake\Controller\Controller`,
		Components: []string{"RequestHandler", "Flash", "Auth"},
	}))
	require.NoError(t, r.RegisterController(ControllerRecord{
		FQCN:       `App\Controller\ArticlesController`,
		Extends:    `App\Controller\AppController`,
		Components: []string{"Upload", "Flash"},
	}))
	require.NoError(t, r.RegisterController(ControllerRecord{
		FQCN:    `App\Controller\Admin\UsersController`,
		Extends: `\App\Controller\AppController`,
		Model:   models.ModelDeclaration{Declared: true, Value: "Accounts"},
	}))
	require.NoError(t, r.RegisterController(ControllerRecord{
		FQCN:    `App\Controller\DashboardController`,
		Extends: `App\Controller\AppController`,
		Model:   models.ModelDeclaration{Declared: true, Disabled: true},
	}))
	require.NoError(t, r.RegisterController(ControllerRecord{
		FQCN:    `App\Controller\BrokenController`,
		Extends: `App\Controller\MissingBaseController`,
	}))
	require.NoError(t, r.RegisterController(ControllerRecord{
		FQCN:    `App\Controller\ReportsController`,
		Extends: `App\Controller\AppController`,
		Fault:   "Missing database connection",
	}))
	require.NoError(t, r.RegisterController(ControllerRecord{
		FQCN:       `Blog\Controller\PostsController`,
		Plugin:     "Blog",
		Extends:    `App\Controller\AppController`,
		Components: []string{"Blog.Upload", "Comments"},
	}))
	require.NoError(t, r.RegisterComponent("Upload", `App\Controller\Component\UploadComponent`))
	require.NoError(t, r.RegisterComponent("Blog.Comments", `Blog\Controller\Component\CommentsComponent`))

	return r
}

func instantiate(t *testing.T, r *ClassRegistry, plugin, className, prefix string) introspect.Controller {
	t.Helper()

	handle, ok := r.Resolve(plugin, className, prefix)
	require.True(t, ok)
	ctrl, err := handle.Instantiate()
	require.NoError(t, err)
	return ctrl
}

func TestClassRegistry_Resolve(t *testing.T) {
	r := newTestClassRegistry(t)

	handle, ok := r.Resolve("", "ArticlesController", "")
	require.True(t, ok)
	assert.Equal(t, `App\Controller\ArticlesController`, handle.Name())

	handle, ok = r.Resolve("", "UsersController", "Admin")
	require.True(t, ok)
	assert.Equal(t, `App\Controller\Admin\UsersController`, handle.Name())

	_, ok = r.Resolve("", "UsersController", "")
	assert.False(t, ok)

	_, ok = r.Resolve("Blog", "ArticlesController", "")
	assert.False(t, ok)

	handle, ok = r.Resolve("Blog", "PostsController", "")
	require.True(t, ok)
	assert.Equal(t, `Blog\Controller\PostsController`, handle.Name())
}

func TestClassRegistry_ModelField(t *testing.T) {
	r := newTestClassRegistry(t)

	assert.Equal(t, introspect.ModelField{Value: "Articles"}, instantiate(t, r, "", "ArticlesController", "").ModelClass())
	assert.Equal(t, introspect.ModelField{Value: "Accounts", Declared: true}, instantiate(t, r, "", "UsersController", "Admin").ModelClass())
	assert.Equal(t, introspect.ModelField{Disabled: true, Declared: true}, instantiate(t, r, "", "DashboardController", "").ModelClass())
	assert.Equal(t, introspect.ModelField{Value: "Blog.Posts"}, instantiate(t, r, "Blog", "PostsController", "").ModelClass())
}

func TestClassRegistry_EmptyDeclaredModelField(t *testing.T) {
	r := NewClassRegistry("")
	require.NoError(t, r.RegisterController(ControllerRecord{
		FQCN:    `App\Controller\ArticlesController`,
		Extends: `Cake\Controller\Controller`,
		Model:   models.ModelDeclaration{Declared: true},
	}))

	assert.Equal(t, introspect.ModelField{Declared: true}, instantiate(t, r, "", "ArticlesController", "").ModelClass())
}

func TestClassRegistry_Components(t *testing.T) {
	r := newTestClassRegistry(t)

	assert.Equal(t, []models.ServiceBinding{
		{Name: "RequestHandler", ConcreteType: `Cake\Controller\Component\RequestHandlerComponent`},
		{Name: "Flash", ConcreteType: `Cake\Controller\Component\FlashComponent`},
		{Name: "Auth", ConcreteType: `Cake\Controller\Component\AuthComponent`},
		{Name: "Upload", ConcreteType: `App\Controller\Component\UploadComponent`},
	}, instantiate(t, r, "", "ArticlesController", "").Components())

	posts := instantiate(t, r, "Blog", "PostsController", "").Components()
	require.Len(t, posts, 5)
	assert.Equal(t, models.ServiceBinding{Name: "Upload", ConcreteType: `Blog\Controller\Component\UploadComponent`}, posts[3])
	assert.Equal(t, models.ServiceBinding{Name: "Comments", ConcreteType: `Blog\Controller\Component\CommentsComponent`}, posts[4])
}

func TestClassRegistry_InstantiationFaults(t *testing.T) {
	r := newTestClassRegistry(t)

	handle, ok := r.Resolve("", "BrokenController", "")
	require.True(t, ok)
	_, err := handle.Instantiate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `Class 'App\Controller\MissingBaseController' not found`)

	handle, ok = r.Resolve("", "ReportsController", "")
	require.True(t, ok)
	_, err = handle.Instantiate()
	require.Error(t, err)
	assert.Equal(t, "Missing database connection", err.Error())
}

func TestClassRegistry_CyclicHierarchy(t *testing.T) {
	r := NewClassRegistry("")
	require.NoError(t, r.RegisterController(ControllerRecord{FQCN: `App\Controller\AController`, Extends: `App\Controller\BController`}))
	require.NoError(t, r.RegisterController(ControllerRecord{FQCN: `App\Controller\BController`, Extends: `App\Controller\AController`}))

	handle, ok := r.Resolve("", "AController", "")
	require.True(t, ok)
	_, err := handle.Instantiate()
	assert.ErrorContains(t, err, "cyclic")
}

func TestClassRegistry_WithIntrospector(t *testing.T) {
	r := newTestClassRegistry(t)
	intro := introspect.New(r, nil, nil, introspect.Config{})

	desc := models.ControllerDescriptor{ClassName: "ArticlesController"}
	assert.Equal(t, models.FoundPrimaryModel("Articles"), intro.PrimaryModel(desc))
	assert.Equal(t, []models.ServiceBinding{
		{Name: "Upload", ConcreteType: `App\Controller\Component\UploadComponent`},
	}, intro.ProjectServices(desc))

	reports := models.ControllerDescriptor{ClassName: "ReportsController"}
	assert.Equal(t, models.Unavailable(), intro.PrimaryModel(reports))
	assert.Empty(t, intro.ProjectServices(reports))
}

func TestClassRegistry_RegisterValidation(t *testing.T) {
	r := NewClassRegistry("")
	assert.Error(t, r.RegisterController(ControllerRecord{}))
	assert.Error(t, r.RegisterComponent("", `App\Controller\Component\XComponent`))
	assert.Error(t, r.RegisterComponent("Blog.", `App\Controller\Component\XComponent`))
	assert.Equal(t, 0, r.ComponentCount())
}

func TestClassRegistry_ControllerClassName(t *testing.T) {
	r := NewClassRegistry("MyApp")
	assert.Equal(t, `MyApp\Controller\PagesController`, r.ControllerClassName("", "PagesController", ""))
	assert.Equal(t, `Vendor\Blog\Controller\Admin\PostsController`, r.ControllerClassName("Vendor/Blog", "PostsController", "Admin"))
}
