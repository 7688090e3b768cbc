package resttests

import (
	"github.com/launchdarkly/rest-contract-tests/contract"
)

const (
	registeredEmail = "eve.holt@reqres.in"
	expectedToken   = "QpwL5tke4Pnpja7X4"
	missingPassword = "Missing password"
)

func userCases() []Case {
	return []Case{
		getCase("list users", "/users?page=2",
			contract.StatusEquals(200),
			contract.JSONFieldEquals("page", 2),
			contract.BodyNonEmpty(),
		),
		getCase("single user", "/users/2",
			contract.StatusEquals(200),
			contract.JSONFieldEquals("data.id", 2),
			contract.JSONFieldEquals("data.email", "janet.weaver@reqres.in"),
			contract.BodyNonEmpty(),
		),
		getCase("user not found", "/users/23",
			contract.StatusEquals(404),
			contract.BodyEquals("{}"),
		),
		jsonCase("create user", contract.POST, "/users", `{"name": "morpheus", "job": "leader"}`,
			contract.StatusEquals(201),
			contract.JSONFieldEquals("name", "morpheus"),
			contract.BodyContains("morpheus"),
		),
		jsonCase("update user with PUT", contract.PUT, "/users/2", `{"name": "morpheus", "job": "zion resident"}`,
			contract.StatusEquals(200),
			contract.JSONFieldEquals("job", "zion resident"),
			contract.BodyContains("zion resident"),
		),
		jsonCase("update user with PATCH", contract.PATCH, "/users/2", `{"name": "morpheus", "job": "zion resident"}`,
			contract.StatusEquals(200),
			contract.JSONFieldEquals("job", "zion resident"),
			contract.BodyContains("zion resident"),
		),
		{
			Name:   "delete user",
			Method: contract.DELETE,
			Path:   "/users/2",
			Expect: []contract.Expectation{contract.StatusEquals(204), contract.BodyEquals("")},
		},
	}
}

func resourceCases() []Case {
	return []Case{
		getCase("list resources", "/unknown",
			contract.StatusEquals(200),
			contract.JSONFieldEquals("total", 12),
			contract.JSONFieldEquals("total_pages", 2),
			contract.BodyNonEmpty(),
		),
		getCase("single resource", "/unknown/2",
			contract.StatusEquals(200),
			contract.JSONFieldEquals("data.id", 2),
			contract.JSONFieldEquals("data.name", "fuchsia rose"),
			contract.BodyNonEmpty(),
		),
		getCase("resource not found", "/unknown/23",
			contract.StatusEquals(404),
			contract.BodyEquals("{}"),
		),
	}
}

func authenticationCases() []Case {
	return []Case{
		jsonCase("register successful", contract.POST, "/register",
			`{"email": "`+registeredEmail+`", "password": "pistol"}`,
			contract.StatusEquals(200),
			contract.JSONFieldEquals("token", expectedToken),
			contract.BodyContains(expectedToken),
		),
		jsonCase("register without password", contract.POST, "/register",
			`{"email": "`+registeredEmail+`"}`,
			contract.StatusEquals(400),
			contract.JSONFieldEquals("error", missingPassword),
			contract.BodyContains(missingPassword),
		),
		jsonCase("login successful", contract.POST, "/login",
			`{"email": "`+registeredEmail+`", "password": "cityslicka"}`,
			contract.StatusEquals(200),
			contract.JSONFieldEquals("token", expectedToken),
			contract.BodyContains(expectedToken),
		),
		jsonCase("login without password", contract.POST, "/login",
			`{"email": "peter@klaven"}`,
			contract.StatusEquals(400),
			contract.JSONFieldEquals("error", missingPassword),
			contract.BodyContains(missingPassword),
		),
	}
}

func delayedResponseCases() []Case {
	return []Case{
		getCase("users after 3 second delay", "users?delay=3",
			contract.StatusEquals(200),
			contract.JSONFieldEquals("total_pages", 2),
			contract.JSONFieldEquals("total", 12),
			contract.BodyNonEmpty(),
		),
	}
}
