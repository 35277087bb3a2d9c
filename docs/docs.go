// Package docs registra la especificación OpenAPI de la API en swag.
// swagger.json se regenera con `swag init -g cmd/api/main.go`.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var docTemplate string

// SwaggerInfo metadatos de la API expuestos por swag.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Alumasa Almoxarifado API",
	Description:      "Controle do almoxarifado: itens, movimentações, contagem de inventário e relatórios.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
