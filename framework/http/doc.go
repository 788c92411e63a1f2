// Package http provides request and response helpers for handlers that
// build entities from request bodies.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//
//	// Decode a JSON, YAML or form body into entity input
//	data, err := req.Values()          // entity.Values
//	money, err := models.Money.New(data)
//
//	// Input retrieval (query string + POST body)
//	name  := req.Input("name", "default")
//	page  := req.Query("page", "1")
//	query := req.QueryAll()            // map[string]string, for validators.Make
//	ok    := req.Has("name")
//
//	// Route params (requires chi)
//	id := req.RouteParam("id")
//
//	// Headers and auth
//	token := req.BearerToken()
//	req.IsJSON()     // Accept or Content-Type is application/json
//	req.WantsYAML()  // Accept mentions yaml
//
// # Response
//
//	res := gohttp.NewResponse(w)      // always JSON
//	res := gohttp.For(w, req)         // YAML when the request asks for it
//
//	res.Success(data)             // 200 {"data": ...}
//	res.Created(data)             // 201 {"data": ...}
//	res.NoContent()               // 204
//
//	res.Error(400, "bad input")   // {"message": "bad input"}
//	res.Unauthorized()            // 401 {"message": "Unauthenticated."}
//	res.NotFound()                // 404 {"message": "Not found."}
//	res.ServerError()             // 500 {"message": "Server Error."}
//	res.ValidationError(errs)     // 422 {"errors": {"field": ["msg"]}}
//	res.Fail(err)                 // 422 for field errors, 500 otherwise
package http
