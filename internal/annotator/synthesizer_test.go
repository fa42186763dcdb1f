package annotator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/idehint/internal/models"
	"github.com/toyz/idehint/internal/scanner"
)

type mapTypes struct {
	tables   map[string]string
	entities map[string]string
}

func (m mapTypes) TableType(model, primary string) string {
	if c, ok := m.tables[model]; ok {
		return c
	}
	return models.GenericTable
}

func (m mapTypes) Resolve(model, primary string) string {
	if c, ok := m.entities[model]; ok {
		return c
	}
	return models.GenericEntity
}

func testTypes() mapTypes {
	return mapTypes{
		tables: map[string]string{
			"Articles":   `\App\Model\Table\ArticlesTable`,
			"Comments":   `\App\Model\Table\CommentsTable`,
			"Blog.Posts": `\Blog\Model\Table\PostsTable`,
		},
		entities: map[string]string{
			"Articles": `\App\Model\Entity\Article`,
			"Comments": `\App\Model\Entity\Comment`,
		},
	}
}

func directiveLines(directives []models.Directive) []string {
	lines := make([]string, len(directives))
	for i, d := range directives {
		lines[i] = d.String()
	}
	return lines
}

func TestSynthesize_Order(t *testing.T) {
	directives := Synthesize(Inputs{
		PrimaryModel: "Articles",
		UsedModels:   []string{"Comments", "Blog.Posts"},
		Services: []models.ServiceBinding{
			{Name: "Flash", ConcreteType: `App\Controller\Component\FlashComponent`},
		},
		Pagination: scanner.Pagination{BareCall: true},
	}, testTypes())

	assert.Equal(t, []string{
		`@property \App\Model\Table\ArticlesTable $Articles`,
		`@property \App\Model\Table\CommentsTable $Comments`,
		`@property \Blog\Model\Table\PostsTable $Posts`,
		`@property \App\Controller\Component\FlashComponent $Flash`,
		`@method \App\Model\Entity\Article[]|\Cake\Datasource\ResultSetInterface paginate($object = null, array $settings = [])`,
	}, directiveLines(directives))
}

func TestSynthesize_DedupesPrimaryInUsedModels(t *testing.T) {
	directives := Synthesize(Inputs{
		PrimaryModel: "Articles",
		UsedModels:   []string{"Articles", "Comments", "Articles"},
	}, testTypes())

	require.Len(t, directives, 2)
	assert.Equal(t, "Articles", directives[0].MemberName())
	assert.Equal(t, "Comments", directives[1].MemberName())
}

func TestSynthesize_NoPrimaryModel(t *testing.T) {
	directives := Synthesize(Inputs{}, testTypes())
	assert.Empty(t, directives)
}

func TestSynthesize_UnknownTableFallsBack(t *testing.T) {
	directives := Synthesize(Inputs{PrimaryModel: "Tags"}, testTypes())
	require.Len(t, directives, 1)
	assert.Equal(t, `@property \Cake\ORM\Table $Tags`, directives[0].String())
}

func TestSynthesize_Deterministic(t *testing.T) {
	in := Inputs{
		PrimaryModel: "Articles",
		UsedModels:   []string{"Comments"},
		Pagination:   scanner.Pagination{BareCall: true, ExplicitTargets: []string{"Comments"}},
	}
	assert.Equal(t, Synthesize(in, testTypes()), Synthesize(in, testTypes()))
}

func TestPaginationUnion(t *testing.T) {
	types := testTypes()

	tests := []struct {
		name       string
		primary    string
		pagination scanner.Pagination
		expected   string
	}{
		{
			name:       "no pagination",
			primary:    "Articles",
			pagination: scanner.Pagination{},
			expected:   "",
		},
		{
			name:       "bare call uses primary model",
			primary:    "Articles",
			pagination: scanner.Pagination{BareCall: true},
			expected:   `\App\Model\Entity\Article[]|\Cake\Datasource\ResultSetInterface`,
		},
		{
			name:       "targeted call excludes primary",
			primary:    "Articles",
			pagination: scanner.Pagination{ExplicitTargets: []string{"Comments"}},
			expected:   `\App\Model\Entity\Comment[]|\Cake\Datasource\ResultSetInterface`,
		},
		{
			name:       "repeated entity types collapse",
			primary:    "Articles",
			pagination: scanner.Pagination{BareCall: true, ExplicitTargets: []string{"Articles", "Comments"}},
			expected:   `\App\Model\Entity\Article[]|\App\Model\Entity\Comment[]|\Cake\Datasource\ResultSetInterface`,
		},
		{
			name:       "unregistered entity uses generic entity",
			primary:    "Articles",
			pagination: scanner.Pagination{ExplicitTargets: []string{"Unknown", "Missing"}},
			expected:   `\Cake\ORM\Entity[]|\Cake\Datasource\ResultSetInterface`,
		},
		{
			name:       "bare call without primary model",
			primary:    "",
			pagination: scanner.Pagination{BareCall: true},
			expected:   `\Cake\ORM\Entity[]|\Cake\Datasource\ResultSetInterface`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PaginationUnion(tt.primary, tt.pagination, types))
		})
	}
}

func TestModelIdentifiers(t *testing.T) {
	assert.Equal(t, []string{"Articles", "Users"}, ModelIdentifiers("Articles", []string{"Users", "Articles"}))
	assert.Equal(t, []string{"Users"}, ModelIdentifiers("", []string{"Users", ""}))
	assert.Nil(t, ModelIdentifiers("", nil))
}

func TestMemberName(t *testing.T) {
	assert.Equal(t, "Articles", memberName("Articles"))
	assert.Equal(t, "Posts", memberName("Blog.Posts"))
	assert.Equal(t, "Users", memberName("Admin/Users"))
}
