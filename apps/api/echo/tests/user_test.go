package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"

	echoapi "github.com/trezcool/kura/apps/api/echo"
	"github.com/trezcool/kura/core/user"
)

func Test_userApi_login(t *testing.T) {
	db.Reset()

	createUser(t, "Legacy Lady", "legacy", "OldSchool Pwd", user.RoleVoter, false)
	createUser(t, "Hash Hero", "hashed", "S3cret!Pwd", user.RoleVoter, true)

	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			body:     []byte("{}"),
			wantData: marchallObj(t, map[string]string{"username": "this field is required", "password": "this field is required"}),
		},
		{
			name: "unknown user", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, echoapi.LoginRequest{Username: "who", Password: "dis"}),
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, echoapi.LoginRequest{Username: "hashed", Password: "nope nope"}),
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "legacy plaintext credential", wantCode: http.StatusOK,
			body:  marchallObj(t, echoapi.LoginRequest{Username: "legacy", Password: "OldSchool Pwd"}),
			extra: "legacy",
		},
		{
			name: "hashed credential", wantCode: http.StatusOK,
			body:  marchallObj(t, echoapi.LoginRequest{Username: "hashed", Password: "S3cret!Pwd"}),
			extra: "hashed",
		},
		{
			name: "whitespace is trimmed", wantCode: http.StatusOK,
			body:  marchallObj(t, echoapi.LoginRequest{Username: "  hashed ", Password: " S3cret!Pwd  "}),
			extra: "hashed",
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/users/login"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)

			// cannot guess the token.. just check that it's not empty
			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var respData echoapi.LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
					t.Fatalf("json.Unmarshal(): %v", err)
				}
				if respData.Token == "" {
					t.Error("failed! empty token")
				}
				if respData.Username != tt.extra {
					t.Errorf("failed! username = %q; want %q", respData.Username, tt.extra)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	// logging in must not rehash a legacy credential
	usr, err := usrRepo.GetUserByUsername(context.Background(), "legacy")
	if err != nil {
		t.Fatalf("GetUserByUsername(): %v", err)
	}
	if usr.Credential.IsHashed() {
		t.Error("failed! legacy credential was upgraded on login")
	}
}

func Test_userApi_changePassword(t *testing.T) {
	db.Reset()

	createUser(t, "Legacy Lady", "legacy", "OldSchool Pwd", user.RoleVoter, false)

	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ChangePassword{Username: "legacy", NewPassword: "NewS3cret!Pwd"}),
			wantData: marchallObj(t, map[string]string{"old_password": "this field is required"}),
		},
		{
			name: "weak new password", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ChangePassword{Username: "legacy", OldPassword: "OldSchool Pwd", NewPassword: "12345678"}),
			wantData: marchallObj(t, map[string]string{"new_password": "password cannot be entirely numeric"}),
		},
		{
			name: "unknown user", wantCode: http.StatusNotFound,
			body:     marchallObj(t, user.ChangePassword{Username: "who", OldPassword: "dis", NewPassword: "NewS3cret!Pwd"}),
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "wrong old password", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ChangePassword{Username: "legacy", OldPassword: "nope", NewPassword: "NewS3cret!Pwd"}),
			wantData: marchallObj(t, map[string]string{"old_password": "invalid old password"}),
		},
		{
			name: "legacy credential upgraded", wantCode: http.StatusNoContent,
			body: marchallObj(t, user.ChangePassword{Username: "legacy", OldPassword: "OldSchool Pwd", NewPassword: "NewS3cret!Pwd"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/users/password-change"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusNoContent {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	// the stored credential is now a hash; old password no longer works
	usr, err := usrRepo.GetUserByUsername(context.Background(), "legacy")
	if err != nil {
		t.Fatalf("GetUserByUsername(): %v", err)
	}
	if !usr.Credential.IsHashed() {
		t.Error("failed! credential was not upgraded to a hash")
	}
	if err = usr.CheckPassword("NewS3cret!Pwd"); err != nil {
		t.Errorf("CheckPassword(new): %v", err)
	}
	if err = usr.CheckPassword("OldSchool Pwd"); err == nil {
		t.Error("failed! old password still verifies")
	}
}

func Test_userApi_refreshToken(t *testing.T) {
	db.Reset()

	voter := createUser(t, "Hash Hero", "hashed", "S3cret!Pwd", user.RoleVoter, true)

	now := time.Now()
	unrefreshableClaims := &echoapi.Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   voter.ID,
			ExpiresAt: now.Add(conf.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		OrigIssuedAt: now.Add(-2 * conf.JWTRefreshExpirationDelta).Unix(), // older than threshold
		Username:     voter.Username,
	}
	unrefreshableToken, err := echoapi.GenerateToken(conf, unrefreshableClaims)
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Refresh period expired", token: unrefreshableToken, wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "refresh has expired"}),
		},
		{name: "Token refreshed", token: getToken(t, voter), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/users/token-refresh"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var respData echoapi.LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
					t.Fatalf("json.Unmarshal(): %v", err)
				}
				if respData.Token == "" {
					t.Error("failed! empty token")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
