// Package builder exposes the email builder over HTTP.
//
// Every resource is a service with a Handle method returning its own chi
// router; Router mounts them under one prefix:
//
//	api := builder.Router(builder.RouterOptions{
//		Themes:     builder.NewThemeService(engine.Themes(), errorHandler),
//		Profiles:   builder.NewProfileService(engine, errorHandler),
//		Documents:  builder.NewDocumentService(docs, errorHandler),
//		// ...
//	})
//	r.Mount("/api", api)
//
// Handlers return handler.Error for failures so that the shared error
// handler (built with MapError) logs them and picks the status code.
package builder
