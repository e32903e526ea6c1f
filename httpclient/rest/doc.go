// Package rest layers typed JSON decoding over httpclient.
//
//	client, _ := rest.New(httpclient.Config{BaseURL: "http://localhost:8080"})
//	resp, err := rest.Get[gallery.ListResponse](ctx, client, "/list", rest.WithQuery(map[string]string{"prefix": "images/"}))
package rest
