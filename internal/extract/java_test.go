package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJavaExtractor_Methods(t *testing.T) {
	t.Parallel()

	source := `public class UserService {
    public UserService(Database db) {
        this.db = db;
    }

    /**
     * Deletes a user by id.
     */
    public boolean deleteUser(String userId, boolean force) {
        return db.remove(userId, force);
    }

    public void refresh() {
    }
}
`

	units, err := NewJavaExtractor().Extract(context.Background(), "UserService.java", []byte(source))
	require.NoError(t, err)
	require.Len(t, units, 2, "constructors are not documentable units")

	deleteUser := units[0]
	assert.Equal(t, "deleteUser", deleteUser.Name)
	assert.Equal(t, "boolean", deleteUser.ReturnType)
	assert.Equal(t, "Deletes a user by id.", deleteUser.Docstring)
	assert.Equal(t, LangJava, deleteUser.Language)
	require.Len(t, deleteUser.Parameters, 2)
	assert.Equal(t, Parameter{Name: "userId", Type: "String"}, deleteUser.Parameters[0])
	assert.Equal(t, Parameter{Name: "force", Type: "boolean"}, deleteUser.Parameters[1])

	refresh := units[1]
	assert.Equal(t, "refresh", refresh.Name)
	assert.Empty(t, refresh.ReturnType, "void is not a documentable return")
	assert.Empty(t, refresh.Parameters)
}

func TestJavaExtractor_InterfaceMethods(t *testing.T) {
	t.Parallel()

	source := `public interface Repository {
    java.util.List<String> findAll(int limit);
}
`

	units, err := NewJavaExtractor().Extract(context.Background(), "Repository.java", []byte(source))
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "findAll", units[0].Name)
	require.Len(t, units[0].Parameters, 1)
	assert.Equal(t, Parameter{Name: "limit", Type: "int"}, units[0].Parameters[0])
}
