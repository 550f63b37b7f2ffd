package exampleapp

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/vyrodovalexey/authtester/internal/observability"
)

// ginModeOnce ensures gin.SetMode is only called once.
var ginModeOnce sync.Once

// AdminGroup is the group checked by the /admin route.
const AdminGroup = "ADMIN"

// Config configures the application.
type Config struct {
	// Users maps logins to clear-text passwords, DefaultUsers when nil.
	Users map[string]string

	// Admins lists administrator logins, DefaultAdmins when nil.
	Admins []string

	// Secret is the token signing key, random when empty.
	Secret []byte

	// TokenTTL is the token lifetime, one hour when zero.
	TokenTTL time.Duration

	// AllowFake accepts the login parameter as authentication.
	AllowFake bool

	// PasswordCost is the bcrypt cost, bcrypt.MinCost when zero.
	PasswordCost int

	// Logger receives request logs.
	Logger observability.Logger

	// Metrics, when set, records request metrics and serves them on
	// GET /metrics.
	Metrics *observability.Metrics
}

// DefaultUsers returns the default users and passwords.
func DefaultUsers() map[string]string {
	return map[string]string{
		"calvin": "clv-pass",
		"hobbes": "hbs-pass",
		"susie":  "ss-pass",
		"moe":    "m-pass",
	}
}

// DefaultAdmins returns the default administrators.
func DefaultAdmins() []string {
	return []string{"calvin", "susie"}
}

var greetings = map[string]string{
	"en": "Hi",
	"fr": "Salut",
	"it": "Ciao",
	"de": "Hallo",
}

// App is the example application.
type App struct {
	engine    *gin.Engine
	users     map[string][]byte
	admins    map[string]bool
	dummyHash []byte
	allowFake bool
	signer    *tokenSigner
	logger    observability.Logger
	metrics   *observability.Metrics
}

// New creates the application.
func New(cfg Config) (*App, error) {
	ginModeOnce.Do(func() {
		gin.SetMode(gin.ReleaseMode)
	})

	if cfg.Users == nil {
		cfg.Users = DefaultUsers()
	}
	if cfg.Admins == nil {
		cfg.Admins = DefaultAdmins()
	}
	if cfg.PasswordCost == 0 {
		cfg.PasswordCost = bcrypt.MinCost
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.NopLogger()
	}

	signer, err := newTokenSigner(cfg.Secret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	a := &App{
		users:     make(map[string][]byte, len(cfg.Users)),
		admins:    make(map[string]bool, len(cfg.Admins)),
		allowFake: cfg.AllowFake,
		signer:    signer,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}

	for login, password := range cfg.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.PasswordCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password of %s: %w", login, err)
		}
		a.users[login] = hash
	}
	a.dummyHash, err = bcrypt.GenerateFromPassword([]byte("dummy"), cfg.PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash dummy password: %w", err)
	}
	for _, login := range cfg.Admins {
		a.admins[login] = true
	}

	a.engine = a.routes()
	return a, nil
}

// Handler returns the application HTTP handler.
func (a *App) Handler() http.Handler {
	return a.engine
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.engine.ServeHTTP(w, r)
}

// CreateToken issues a token for login.
func (a *App) CreateToken(login string) (string, error) {
	return a.signer.issue(login)
}

func (a *App) routes() *gin.Engine {
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(requestID(), logging(a.logger), recovery(a.logger))
	if a.metrics != nil {
		engine.Use(metrics(a.metrics))
		engine.GET("/metrics", gin.WrapH(a.metrics.Handler()))
	}

	all := []method{methodToken, methodParam, methodBasic, methodFake}

	engine.GET("/login", a.authenticate(methodBasic), a.login(http.StatusOK))
	engine.POST("/login", a.authenticate(methodParam), a.login(http.StatusCreated))
	engine.GET("/who-am-i", a.authenticate(all...), a.whoAmI)
	engine.GET("/admin", a.authenticate(all...), a.requireGroup(AdminGroup), a.admin)
	engine.GET("/hello", a.hello)
	engine.POST("/upload", a.upload)
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return engine
}

func (a *App) requireGroup(group string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := currentUser(c)
		if group == AdminGroup && a.admins[user] {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": fmt.Sprintf("%s not in group %q", user, group),
		})
	}
}

func (a *App) login(status int) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := currentUser(c)
		token, err := a.CreateToken(user)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "cannot create token"})
			return
		}
		c.JSON(status, gin.H{"user": user, "token": token})
	}
}

func (a *App) whoAmI(c *gin.Context) {
	user, _ := currentUser(c)
	var lang any
	if l, err := c.Cookie("lang"); err == nil {
		lang = l
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "isadmin": a.admins[user], "lang": lang})
}

func (a *App) admin(c *gin.Context) {
	user, _ := currentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": user, "isadmin": true})
}

func (a *App) hello(c *gin.Context) {
	lang, err := c.Cookie("lang")
	if err != nil || lang == "" {
		lang = "en"
	}
	hello, ok := greetings[lang]
	if !ok {
		hello = "Hey"
	}
	c.JSON(http.StatusOK, gin.H{"lang": lang, "hello": hello})
}

type uploadedFile struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Content     string `json:"content"`
}

func (a *App) upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "expecting multipart form"})
		return
	}

	fields := make(map[string]string, len(form.Value))
	for k, vs := range form.Value {
		if len(vs) > 0 {
			fields[k] = vs[0]
		}
	}

	names := make([]string, 0, len(form.File))
	for name := range form.File {
		names = append(names, name)
	}
	sort.Strings(names)

	files := make(map[string]uploadedFile, len(names))
	for _, name := range names {
		header := form.File[name][0]
		f, err := header.Open()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "cannot open " + name})
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "cannot read " + name})
			return
		}
		files[name] = uploadedFile{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     string(data),
		}
	}

	c.JSON(http.StatusOK, gin.H{"fields": fields, "files": files})
}
