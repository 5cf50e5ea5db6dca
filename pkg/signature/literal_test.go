package signature_test

import (
	"testing"

	"github.com/arthur-debert/jrename/pkg/signature"
	"github.com/stretchr/testify/assert"
)

func TestLiteralReplacer(t *testing.T) {
	r := signature.NewLiteralReplacer(map[string]string{
		"javax.":          "jakarta.",
		"javax.sql.":      "javax.sql.",
		"http://java.sun": "https://jakarta.ee",
		"":                "ignored",
	})

	t.Run("longest_key_wins", func(t *testing.T) {
		got, n := r.Replace("javax.sql.DataSource javax.inject")
		assert.Equal(t, "javax.sql.DataSource jakarta.inject", got)
		assert.Equal(t, 2, n)
	})

	t.Run("replacement_not_rescanned", func(t *testing.T) {
		loop := signature.NewLiteralReplacer(map[string]string{"a": "aa"})
		got, n := loop.Replace("aba")
		assert.Equal(t, "aabaa", got)
		assert.Equal(t, 2, n)
	})

	t.Run("no_match", func(t *testing.T) {
		got, n := r.Replace("nothing here")
		assert.Equal(t, "nothing here", got)
		assert.Zero(t, n)
	})

	t.Run("empty", func(t *testing.T) {
		assert.True(t, signature.NewLiteralReplacer(nil).Empty())
	})
}

func TestRenameResourcePath(t *testing.T) {
	m := jakartaMatcher()
	tests := []struct {
		in   string
		want string
	}{
		{"javax/servlet/resources/web-app.dtd", "jakarta/servlet/resources/web-app.dtd"},
		{"javax/inject/Inject.class", "jakarta/inject/Inject.class"},
		{"META-INF/versions/11/javax/inject/Named.class", "META-INF/versions/11/jakarta/inject/Named.class"},
		{"javax/el/ELContext.class", "jakarta/el/ELContext.class"},
		{"javax/sql/x.properties", "javax/sql/x.properties"},
		{"top.txt", "top.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, _ := m.RenameResourcePath(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}
