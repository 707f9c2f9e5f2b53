// Package docs регистрирует OpenAPI-описание EquipTrack API для swagger UI.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support",
            "url": "http://www.swagger.io/support",
            "email": "support@swagger.io"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/health": {
            "get": {"tags": ["Health"], "summary": "Проверка состояния", "responses": {"200": {"description": "OK"}, "503": {"description": "База данных недоступна"}}}
        },
        "/api/auth/register": {
            "post": {"tags": ["Auth"], "summary": "Регистрация пользователя", "responses": {"200": {"description": "OK"}, "409": {"description": "Имя или email заняты"}, "422": {"description": "Ошибка валидации"}}}
        },
        "/api/auth/login": {
            "post": {"tags": ["Auth"], "summary": "Авторизация пользователя", "responses": {"200": {"description": "OK"}, "401": {"description": "Неверные учетные данные"}}}
        },
        "/api/auth/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Auth"], "summary": "Текущий пользователь", "responses": {"200": {"description": "OK"}, "401": {"description": "Не авторизован"}}}
        },
        "/api/users": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Users"], "summary": "Список пользователей", "responses": {"200": {"description": "OK"}}}
        },
        "/api/subscription/status": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Subscription"], "summary": "Статус подписки", "responses": {"200": {"description": "OK"}}}
        },
        "/api/payments/packages": {
            "get": {"tags": ["Payments"], "summary": "Тарифы", "responses": {"200": {"description": "OK"}}}
        },
        "/api/payments/create-checkout": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Payments"], "summary": "Создание checkout-сессии", "responses": {"200": {"description": "OK"}, "422": {"description": "Неизвестный тариф"}, "502": {"description": "Провайдер недоступен"}}}
        },
        "/api/payments/status/{session_id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Payments"], "summary": "Статус checkout-сессии", "parameters": [{"type": "string", "name": "session_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Сессия не найдена"}}}
        },
        "/api/webhook/stripe": {
            "post": {"tags": ["Payments"], "summary": "Webhook платёжного провайдера", "parameters": [{"type": "string", "name": "Stripe-Signature", "in": "header", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Неверная подпись"}}}
        },
        "/api/departments": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Departments"], "summary": "Список отделов", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Departments"], "summary": "Создание отдела", "responses": {"200": {"description": "OK"}, "409": {"description": "Отдел уже существует"}}}
        },
        "/api/departments/{id}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Departments"], "summary": "Удаление отдела", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Отдел используется"}}}
        },
        "/api/machines": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Machines"], "summary": "Список оборудования", "parameters": [{"type": "string", "name": "department_id", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Machines"], "summary": "Создание оборудования", "responses": {"200": {"description": "OK"}, "404": {"description": "Отдел не найден"}}}
        },
        "/api/machines/{id}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Machines"], "summary": "Удаление оборудования", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/work-orders": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["WorkOrders"], "summary": "Список заказ-нарядов", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["WorkOrders"], "summary": "Создание заказ-наряда", "responses": {"200": {"description": "OK"}, "422": {"description": "Ошибка валидации"}}}
        },
        "/api/work-orders/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["WorkOrders"], "summary": "Заказ-наряд по ID", "parameters": [{"type": "string", "description": "ID или номер WO-YYYY-NNNN", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Не найден"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["WorkOrders"], "summary": "Обновление заказ-наряда", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Не найден"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["WorkOrders"], "summary": "Удаление заказ-наряда", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Не найден"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "EquipTrack API",
	Description:      "API учёта оборудования и заказ-нарядов на обслуживание.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
