package exampleapp

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"golang.org/x/crypto/bcrypt"

	"github.com/vyrodovalexey/authtester/internal/auth"
)

const (
	userKey   = "exampleapp.user"
	paramsKey = "exampleapp.params"
)

var (
	errNoAuth      = errors.New("missing authentication")
	errBadPassword = errors.New("invalid password")
	errBadToken    = errors.New("invalid token")
)

// method is a way the application authenticates a request.
type method uint8

const (
	methodToken method = iota
	methodParam
	methodBasic
	methodFake
)

// authenticate requires one of the given methods to identify the user.
// Presented but wrong credentials fail right away.
func (a *App) authenticate(methods ...method) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, m := range methods {
			if m == methodFake && !a.allowFake {
				continue
			}
			login, found, err := a.try(c, m)
			if err != nil {
				a.unauthorized(c, err)
				return
			}
			if found {
				c.Set(userKey, login)
				c.Next()
				return
			}
		}
		a.unauthorized(c, errNoAuth)
	}
}

func (a *App) unauthorized(c *gin.Context, err error) {
	c.Header("WWW-Authenticate", `Basic realm="exampleapp"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
}

// currentUser returns the authenticated login.
func currentUser(c *gin.Context) (string, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return "", false
	}
	login, ok := v.(string)
	return login, ok
}

func (a *App) try(c *gin.Context, m method) (string, bool, error) {
	switch m {
	case methodToken:
		token, ok := a.findToken(c)
		if !ok {
			return "", false, nil
		}
		login, err := a.signer.verify(token)
		if err != nil || !a.known(login) {
			return "", false, errBadToken
		}
		return login, true, nil

	case methodBasic:
		login, password, ok := c.Request.BasicAuth()
		if !ok {
			return "", false, nil
		}
		return login, true, a.checkPassword(login, password)

	case methodParam:
		params := requestParams(c)
		login, ok := params[auth.DefaultUserParam]
		if !ok {
			return "", false, nil
		}
		return login, true, a.checkPassword(login, params[auth.DefaultPassParam])

	case methodFake:
		login, ok := requestParams(c)[auth.DefaultLoginParam]
		return login, ok && login != "", nil

	default:
		return "", false, fmt.Errorf("unexpected method %d", m)
	}
}

// findToken looks for a token in the bearer header, the token header, the
// token cookie and the token parameter, in that order.
func (a *App) findToken(c *gin.Context) (string, bool) {
	if authz := c.GetHeader("Authorization"); authz != "" {
		scheme, token, ok := strings.Cut(authz, " ")
		if ok && scheme == auth.DefaultBearer {
			return token, true
		}
	}
	if token := c.GetHeader(auth.DefaultHeader); token != "" {
		return token, true
	}
	if token, err := c.Cookie(auth.DefaultCookie); err == nil && token != "" {
		return token, true
	}
	if token, ok := requestParams(c)[auth.DefaultTokenParam]; ok {
		return token, true
	}
	return "", false
}

func (a *App) known(login string) bool {
	_, ok := a.users[login]
	return ok
}

func (a *App) checkPassword(login, password string) error {
	hash, ok := a.users[login]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
		return errBadPassword
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return errBadPassword
	}
	return nil
}

// requestParams merges query, form and JSON object parameters. The body is
// read once and cached in the context, whatever the method.
func requestParams(c *gin.Context) map[string]string {
	if v, ok := c.Get(paramsKey); ok {
		if params, ok := v.(map[string]string); ok {
			return params
		}
	}

	params := make(map[string]string)
	_ = c.ShouldBindQuery(&params)

	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		switch c.ContentType() {
		case binding.MIMEMultipartPOSTForm:
			if form, err := c.MultipartForm(); err == nil {
				for k, vs := range form.Value {
					if len(vs) > 0 {
						params[k] = vs[0]
					}
				}
			}
		case binding.MIMEPOSTForm:
			_ = c.ShouldBindBodyWith(&params, formBody{})
		case binding.MIMEJSON:
			var object map[string]any
			if err := c.ShouldBindBodyWith(&object, binding.JSON); err == nil {
				for k, v := range object {
					if s, ok := v.(string); ok {
						params[k] = s
					}
				}
			}
		}
	}

	c.Set(paramsKey, params)
	return params
}

// formBody binds an urlencoded body. net/http only parses such bodies on
// POST, PUT and PATCH, while credentials may ride on any method.
type formBody struct{}

func (formBody) Name() string {
	return "form-body"
}

func (b formBody) Bind(req *http.Request, obj any) error {
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}
	return b.BindBody(data, obj)
}

func (formBody) BindBody(body []byte, obj any) error {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return err
	}
	return binding.MapFormWithTag(obj, values, "form")
}
