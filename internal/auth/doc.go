// Package auth is the credential store and the session layer of the web app.
//
// Accounts are created with Service.Signup and checked with
// Service.Authenticate; passwords are stored as bcrypt hashes only.
// A logged in browser carries an scs session whose "curr_user" key holds the
// user ID. Middleware.CurrentUser resolves it into the gin context on every
// request, and handlers read it back with CurrentUser(c).
//
// # Configuration
//
//	AUTH_SESSION_SECRET=<hex>       # CSRF key, generated per process if empty
//	AUTH_SESSION_LIFETIME=24h
//	AUTH_BCRYPT_COST=12
//	AUTH_SECURE_COOKIES=true        # false for local HTTP
//	AUTH_CSRF_ENABLED=true
//	AUTH_MAX_LOGIN_ATTEMPTS=5
//
// # Usage
//
//	svc := auth.NewService(users.NewRepository(db.DB), cfg.Auth)
//	sm, _ := auth.NewSessionManager(sqlDB, cfg.Auth)
//	mw := auth.NewMiddleware(svc, sm)
//	router.Use(sm.SessionLoadSave(), mw.CurrentUser())
//	members := router.Group("/", mw.RequireUser())
package auth
