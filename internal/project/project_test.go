package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/idehint/internal/errors"
	"github.com/toyz/idehint/internal/introspect"
	"github.com/toyz/idehint/internal/models"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// newTestApp lays out a small application with one plugin
func newTestApp(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, root, "src/Controller/AppController.php", `<?php
namespace App\Controller;

use Cake\Controller\Controller;

class AppController extends Controller
{
    public function initialize()
    {
        $this->loadComponent('RequestHandler');
        $this->loadComponent('Flash');
    }
}
`)
	writeFile(t, root, "src/Controller/ArticlesController.php", `<?php
namespace App\Controller;

class ArticlesController extends AppController
{
    public $components = ['Upload'];
}
`)
	writeFile(t, root, "src/Controller/Admin/UsersController.php", `<?php
namespace App\Controller\Admin;

use App\Controller\AppController;

class UsersController extends AppController
{
    public $modelClass = false;
}
`)
	writeFile(t, root, "src/Controller/Component/UploadComponent.php", `<?php
namespace App\Controller\Component;

use Cake\Controller\Component;

class UploadComponent extends Component
{
}
`)
	writeFile(t, root, "src/Model/Table/ArticlesTable.php", `<?php
namespace App\Model\Table;

use Cake\ORM\Table;

class ArticlesTable extends Table
{
}
`)
	writeFile(t, root, "src/Model/Entity/Article.php", `<?php
namespace App\Model\Entity;

use Cake\ORM\Entity;

class Article extends Entity
{
}
`)
	writeFile(t, root, "src/functions.php", "<?php\nfunction helper() {}\n")

	writeFile(t, root, "plugins/Blog/src/Controller/PostsController.php", `<?php
namespace Blog\Controller;

use App\Controller\AppController;

class PostsController extends AppController
{
}
`)
	writeFile(t, root, "plugins/Blog/src/Model/Table/PostsTable.php", `<?php
namespace Blog\Model\Table;

use Cake\ORM\Table;

class PostsTable extends Table
{
}
`)
	writeFile(t, root, "plugins/Blog/src/Model/Entity/Post.php", `<?php
namespace Blog\Model\Entity;

class Post extends \Cake\ORM\Entity
{
}
`)
	return root
}

func TestLoad_IndexesSourceTree(t *testing.T) {
	root := newTestApp(t)

	index, err := Load(root, Options{})
	require.NoError(t, err)

	assert.Equal(t, Stats{
		Files:       10,
		Controllers: 4,
		Components:  1,
		Tables:      2,
		Entities:    2,
		Skipped:     1,
	}, index.Stats)

	assert.Equal(t, []string{
		`App\Controller\Admin\UsersController`,
		`App\Controller\AppController`,
		`App\Controller\ArticlesController`,
		`Blog\Controller\PostsController`,
	}, index.Classes.Controllers())

	assert.True(t, index.Tables.HasTable("Blog.Posts"))
	entity, err := index.Tables.EntityClass("Blog.Posts")
	require.NoError(t, err)
	assert.Equal(t, `Blog\Model\Entity\Post`, entity)

	record, ok := index.Classes.Controller(`Blog\Controller\PostsController`)
	require.True(t, ok)
	assert.Equal(t, "Blog", record.Plugin)
	assert.Equal(t, `App\Controller\AppController`, record.Extends)
}

func TestLoad_FeedsIntrospector(t *testing.T) {
	root := newTestApp(t)

	index, err := Load(root, Options{})
	require.NoError(t, err)

	intro := introspect.New(index.Classes, index.Tables, nil, introspect.Config{})
	articles := models.ControllerDescriptor{ClassName: "ArticlesController"}
	assert.Equal(t, models.FoundPrimaryModel("Articles"), intro.PrimaryModel(articles))
	assert.Equal(t, []models.ServiceBinding{
		{Name: "Upload", ConcreteType: `App\Controller\Component\UploadComponent`},
	}, intro.ProjectServices(articles))

	users := models.ControllerDescriptor{ClassName: "UsersController", RoutingPrefix: "Admin"}
	assert.Equal(t, models.NoPrimaryModel(), intro.PrimaryModel(users))

	blog := introspect.New(index.Classes, index.Tables, nil, introspect.Config{Plugin: "Blog"})
	assert.Equal(t, models.FoundPrimaryModel("Blog.Posts"), blog.PrimaryModel(models.ControllerDescriptor{ClassName: "PostsController"}))
}

func TestLoad_AppliesManifest(t *testing.T) {
	root := newTestApp(t)
	manifestPath := writeFile(t, root, ".idehint-classes.yml", `
controllers:
  - class: App\Controller\ArticlesController
    fault: Missing database connection
  - class: App\Controller\ReportsController
    extends: App\Controller\AppController
    model: Statistics
    components: [Export]
components:
  Export: App\Controller\Component\ExportComponent
tables:
  - id: Statistics
    entity: App\Model\Entity\Stat
  - id: Articles
    entity: Story
entities:
  - App\Model\Entity\Stat
`)

	index, err := Load(root, Options{ManifestPath: manifestPath})
	require.NoError(t, err)

	articles, ok := index.Classes.Controller(`App\Controller\ArticlesController`)
	require.True(t, ok)
	assert.Equal(t, "Missing database connection", articles.Fault)
	assert.Equal(t, []string{"Upload"}, articles.Components)

	intro := introspect.New(index.Classes, index.Tables, nil, introspect.Config{})
	reports := models.ControllerDescriptor{ClassName: "ReportsController"}
	assert.Equal(t, models.FoundPrimaryModel("Statistics"), intro.PrimaryModel(reports))
	assert.Equal(t, []models.ServiceBinding{
		{Name: "Export", ConcreteType: `App\Controller\Component\ExportComponent`},
	}, intro.ProjectServices(reports))

	table, err := index.Tables.TableClass("Articles")
	require.NoError(t, err)
	assert.Equal(t, `App\Model\Table\ArticlesTable`, table)
	entity, err := index.Tables.EntityClass("Articles")
	require.NoError(t, err)
	assert.Equal(t, `App\Model\Entity\Story`, entity)

	table, err = index.Tables.TableClass("Statistics")
	require.NoError(t, err)
	assert.Equal(t, `App\Model\Table\StatisticsTable`, table)
}

func TestLoad_InvalidManifest(t *testing.T) {
	root := newTestApp(t)
	manifestPath := writeFile(t, root, "manifest.yml", "controllers:\n  - extends: App\\Controller\\AppController\n")

	_, err := Load(root, Options{ManifestPath: manifestPath})
	require.Error(t, err)
	assert.Equal(t, errors.ManifestErrorCode, errors.CodeOf(err))

	_, err = Load(root, Options{ManifestPath: filepath.Join(root, "missing.yml")})
	require.Error(t, err)
	assert.Equal(t, errors.FileSystemErrorCode, errors.CodeOf(err))
}

func TestLoad_EmptyRoot(t *testing.T) {
	index, err := Load(t.TempDir(), Options{AppNamespace: "MyApp"})
	require.NoError(t, err)
	assert.Equal(t, Stats{}, index.Stats)
	assert.Equal(t, `MyApp\Controller\PagesController`, index.Classes.ControllerClassName("", "PagesController", ""))
}

func TestParseManifest_Model(t *testing.T) {
	m, err := ParseManifest("m.yml", []byte(`
app_namespace: Shop
controllers:
  - class: Shop\Controller\CartController
    model: false
  - class: Shop\Controller\ItemsController
    model: Shop.Items
`))
	require.NoError(t, err)
	assert.Equal(t, "Shop", m.AppNamespace)
	require.Len(t, m.Controllers, 2)
	assert.Equal(t, &ModelValue{Disabled: true}, m.Controllers[0].Model)
	assert.Equal(t, &ModelValue{Value: "Shop.Items"}, m.Controllers[1].Model)

	_, err = ParseManifest("m.yml", []byte("controllers:\n  - class: X\n    model: true\n"))
	assert.Error(t, err)

	_, err = ParseManifest("m.yml", []byte("tables:\n  - class: X\n"))
	assert.Error(t, err)
}
