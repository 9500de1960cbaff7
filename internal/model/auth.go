package model

import "github.com/golang-jwt/jwt/v5"

// PageClaims bind a websocket connection to the page session it was served with
type PageClaims struct {
	PageID string `json:"pageId"`
	jwt.RegisteredClaims
}
