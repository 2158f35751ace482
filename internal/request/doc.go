// Package request resolves HTTP requests against a route table.
//
// Normalize splits a raw request target into the routable path and the
// parameters it carries. Inline segments of the form "key:value" or
// "key:v1,v2" are lifted out of the path and folded with the query
// string:
//
//	n := request.Normalize("/users/1/edit/tag:a,b/tag:c?page=2", "")
//	// n.Path   == "/users/1/edit"
//	// n.Suffix == "page:2/tag:a,b,c"
//
// Resolver matches the normalized path, decodes the request body and
// folds query, body and route parameters into one map:
//
//	resolver := request.NewResolver(table, request.WithTracer(tracer))
//	req, err := resolver.Resolve(ctx, httpReq)
//	if request.IsNotFound(err) {
//	    // 404
//	}
package request
