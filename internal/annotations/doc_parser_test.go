package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/idehint/internal/models"
)

func TestDocParser_ParseLine(t *testing.T) {
	parser := NewDocParser()

	tests := []struct {
		name     string
		line     string
		wantOK   bool
		tag      string
		typeExpr string
		member   string
	}{
		{
			name:     "property",
			line:     ` * @property \App\Model\Table\ArticlesTable $Articles`,
			wantOK:   true,
			tag:      "@property",
			typeExpr: `\App\Model\Table\ArticlesTable`,
			member:   "Articles",
		},
		{
			name:     "property with description",
			line:     ` * @property \Cake\ORM\Table $Users the users table`,
			wantOK:   true,
			tag:      "@property",
			typeExpr: `\Cake\ORM\Table`,
			member:   "Users",
		},
		{
			name:     "paginate method",
			line:     ` * @method \App\Model\Entity\Article[]|\Cake\Datasource\ResultSetInterface paginate($object = null, array $settings = [])`,
			wantOK:   true,
			tag:      "@method",
			typeExpr: `\App\Model\Entity\Article[]|\Cake\Datasource\ResultSetInterface`,
			member:   "paginate",
		},
		{
			name:     "tag without member",
			line:     ` * @var string`,
			wantOK:   true,
			tag:      "@var",
			typeExpr: "string",
		},
		{
			name:   "description line",
			line:   ` * Articles controller`,
			wantOK: false,
		},
		{
			name:   "empty gutter",
			line:   ` *`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ok := parser.ParseLine(tt.line)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.tag, a.Tag)
			assert.Equal(t, tt.typeExpr, a.TypeExpr)
			assert.Equal(t, tt.member, a.Member)
		})
	}
}

func TestAnnotation_MatchesDirective(t *testing.T) {
	parser := NewDocParser()

	a, ok := parser.ParseLine(` * @property Cake\ORM\Table $Articles`)
	require.True(t, ok)

	d := models.Property(`\App\Model\Table\ArticlesTable`, "Articles")
	assert.True(t, a.Matches(d))
	assert.False(t, a.SameType(d.TypeExpr))
	assert.True(t, a.SameType(`\Cake\ORM\Table`))

	m, ok := parser.ParseLine(` * @method \Cake\ORM\Entity[]|\Cake\Datasource\ResultSetInterface paginate($object = null, array $settings = [])`)
	require.True(t, ok)
	assert.True(t, m.Matches(models.Method(`\X[]`, models.PaginateSignature)))
	assert.False(t, m.Matches(d))
}

func TestStripCommentPrefix(t *testing.T) {
	assert.Equal(t, "@property A $b", stripCommentPrefix("   * @property A $b"))
	assert.Equal(t, "summary", stripCommentPrefix("/** summary */"))
	assert.Equal(t, "", stripCommentPrefix(" *"))
}
