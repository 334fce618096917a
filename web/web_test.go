package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"jokebox/session"
	"jokebox/vault"

	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"
)

func testHandler(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()
	store, err := vault.Open(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Log("unable to close store", err)
		}
	})
	guard := session.NewGuard(session.NewCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour), false)
	handler, err := AsHandler(ctx, store, guard)
	require.NoError(t, err)
	return handler
}

func register(t *testing.T, handler http.Handler, username, password string) *apitest.Cookie {
	t.Helper()
	result := apitest.Handler(handler).
		Post("/login").
		FormData("loginType", "register").
		FormData("username", username).
		FormData("password", password).
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "/jokes").
		End()
	cookies := result.Response.Cookies()
	require.NotEmpty(t, cookies, "registration must issue a session cookie")
	return apitest.NewCookie(cookies[0].Name).Value(cookies[0].Value)
}

func bodyContains(substr string) func(*http.Response, *http.Request) error {
	return func(res *http.Response, _ *http.Request) error {
		body, err := io.ReadAll(res.Body)
		if err != nil {
			return err
		}
		if !strings.Contains(string(body), substr) {
			return fmt.Errorf("response body does not contain %q", substr)
		}
		return nil
	}
}

func TestRegisterLoginAndOwnership(t *testing.T) {
	handler := testHandler(t)

	alice := register(t, handler, "alice", "secret1")

	// logging in with the same pair also works and issues a cookie
	result := apitest.Handler(handler).
		Post("/login").
		FormData("loginType", "login").
		FormData("username", "alice").
		FormData("password", "secret1").
		Expect(t).
		Status(http.StatusFound).
		End()
	require.NotEmpty(t, result.Response.Cookies())

	// create a joke while authenticated
	result = apitest.Handler(handler).
		Post("/jokes").
		Cookies(alice).
		FormData("name", "Foo").
		FormData("content", "0123456789").
		Expect(t).
		Status(http.StatusFound).
		End()
	jokeURL := result.Response.Header.Get("Location")
	require.True(t, strings.HasPrefix(jokeURL, "/jokes/"))

	apitest.Handler(handler).
		Get(jokeURL).
		Cookies(alice).
		Expect(t).
		Status(http.StatusOK).
		Assert(bodyContains("0123456789")).
		Assert(bodyContains("Delete")).
		End()

	// bob cannot delete alice's joke and the joke survives
	bob := register(t, handler, "bob", "secret2")
	apitest.Handler(handler).
		Post(jokeURL + "/delete").
		Cookies(bob).
		Expect(t).
		Status(http.StatusForbidden).
		End()
	apitest.Handler(handler).
		Get(jokeURL).
		Expect(t).
		Status(http.StatusOK).
		Assert(bodyContains("0123456789")).
		End()

	// alice can
	apitest.Handler(handler).
		Post(jokeURL + "/delete").
		Cookies(alice).
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "/jokes").
		End()
	apitest.Handler(handler).
		Get(jokeURL).
		Expect(t).
		Status(http.StatusNotFound).
		End()
}

func TestLoginValidation(t *testing.T) {
	handler := testHandler(t)

	apitest.Handler(handler).
		Post("/login").
		Header("Accept", "application/json").
		FormData("loginType", "login").
		FormData("username", "ab").
		FormData("password", "short").
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.fieldErrors.username", "Usernames must be at least 3 characters long")).
		Assert(jsonpath.Equal("$.fieldErrors.password", "Passwords must be at least 6 characters long")).
		Assert(jsonpath.Equal("$.fields.username", "ab")).
		End()

	apitest.Handler(handler).
		Post("/login").
		Header("Accept", "application/json").
		FormData("loginType", "sideways").
		FormData("username", "alice").
		FormData("password", "secret1").
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.formError", "Login type invalid")).
		End()
}

func TestLoginDoesNotLeakWhichFieldFailed(t *testing.T) {
	handler := testHandler(t)
	register(t, handler, "alice", "secret1")

	for _, username := range []string{"alice", "nobody"} {
		apitest.Handler(handler).
			Post("/login").
			Header("Accept", "application/json").
			FormData("loginType", "login").
			FormData("username", username).
			FormData("password", "not-the-password").
			Expect(t).
			Status(http.StatusBadRequest).
			Assert(jsonpath.Equal("$.formError", "Username/password combination is incorrect.")).
			End()
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	handler := testHandler(t)
	register(t, handler, "alice", "secret1")

	apitest.Handler(handler).
		Post("/login").
		Header("Accept", "application/json").
		FormData("loginType", "register").
		FormData("username", "alice").
		FormData("password", "another1").
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.formError", "User with username alice already exists")).
		End()
}

func TestJokeValidation(t *testing.T) {
	handler := testHandler(t)
	alice := register(t, handler, "alice", "secret1")

	apitest.Handler(handler).
		Post("/jokes").
		Cookies(alice).
		Header("Accept", "application/json").
		FormData("name", "ab").
		FormData("content", "short").
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.fieldErrors.name", "That joke's name is too short")).
		Assert(jsonpath.Equal("$.fieldErrors.content", "That joke is too short")).
		End()

	// nothing was created
	apitest.Handler(handler).
		Get("/jokes").
		Expect(t).
		Status(http.StatusOK).
		Assert(bodyContains("No jokes yet")).
		End()
}

func TestMutationsRequireSession(t *testing.T) {
	handler := testHandler(t)

	apitest.Handler(handler).
		Post("/jokes").
		FormData("name", "Foo").
		FormData("content", "0123456789").
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "/login?redirectTo=%2Fjokes%2Fnew").
		End()

	apitest.Handler(handler).
		Get("/jokes/new").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(bodyContains("You must be logged in to create a joke")).
		End()
}

func TestForgedCookieIsAnonymous(t *testing.T) {
	handler := testHandler(t)

	apitest.Handler(handler).
		Get("/jokes/new").
		Cookies(apitest.NewCookie(session.DefaultCookieName).Value("forged-token")).
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
}

func TestLogout(t *testing.T) {
	handler := testHandler(t)
	alice := register(t, handler, "alice", "secret1")

	result := apitest.Handler(handler).
		Post("/logout").
		Cookies(alice).
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "/").
		End()
	cookies := result.Response.Cookies()
	require.NotEmpty(t, cookies)
	require.Empty(t, cookies[0].Value)

	// logout without a session is just as fine
	apitest.Handler(handler).
		Post("/logout").
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "/").
		End()

	apitest.Handler(handler).
		Get("/logout").
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "/").
		End()
}

func TestJokeETag(t *testing.T) {
	handler := testHandler(t)
	alice := register(t, handler, "alice", "secret1")

	result := apitest.Handler(handler).
		Post("/jokes").
		Cookies(alice).
		FormData("name", "Foo").
		FormData("content", "0123456789").
		Expect(t).
		Status(http.StatusFound).
		End()
	jokeURL := result.Response.Header.Get("Location")

	first := apitest.Handler(handler).
		Get(jokeURL).
		Expect(t).
		Status(http.StatusOK).
		End()
	etag := first.Response.Header.Get("ETag")
	require.NotEmpty(t, etag)

	apitest.Handler(handler).
		Get(jokeURL).
		Header("If-None-Match", etag).
		Expect(t).
		Status(http.StatusNotModified).
		End()
}

func TestHomeAndJokesPages(t *testing.T) {
	handler := testHandler(t)

	apitest.Handler(handler).
		Get("/").
		Expect(t).
		Status(http.StatusOK).
		Assert(bodyContains("Read Jokes")).
		End()

	alice := register(t, handler, "alice", "secret1")
	apitest.Handler(handler).
		Post("/jokes").
		Cookies(alice).
		FormData("name", "Foo").
		FormData("content", "0123456789").
		Expect(t).
		Status(http.StatusFound).
		End()

	apitest.Handler(handler).
		Get("/jokes").
		Cookies(alice).
		Expect(t).
		Status(http.StatusOK).
		Assert(bodyContains("Foo")).
		Assert(bodyContains("Hi alice")).
		End()
}
