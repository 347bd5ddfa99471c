// Package docs holds the OpenAPI description served under /swagger.
// It follows the swag annotations on the handlers; docs_test.go keeps its paths in step with the router.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@corplearning.io"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/certificates": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "description": "Register the certificate of an assignment that is eligible for one, optionally with the rendered document URL",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "certificates"
                ],
                "summary": "Register a certificate",
                "parameters": [
                    {
                        "description": "Certificate",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.IssueCertificateRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/models.DerivedStatus"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Not assigned",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "409": {
                        "description": "Certificate not allowed",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/evaluations/{evaluationId}/attempts": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Record a scored attempt at the active evaluation of a course",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "progress"
                ],
                "summary": "Submit an evaluation attempt",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Evaluation ID",
                        "name": "evaluationId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Attempt score",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.SubmitAttemptRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/models.AttemptResult"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Evaluation not found or not assigned",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "409": {
                        "description": "Attempt not allowed",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/lessons/{lessonId}/complete": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Mark a lesson as completed and get the recomputed assignment status",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "progress"
                ],
                "summary": "Complete a lesson",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Lesson ID",
                        "name": "lessonId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.DerivedStatus"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Lesson not found or not assigned",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/progress": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Get the derived status of every course assigned to the current user",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "progress"
                ],
                "summary": "Get my progress",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.DerivedStatus"
                            }
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/progress/courses/{courseId}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Get the derived status of one assignment of the current user, including module breakdown and gates",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "progress"
                ],
                "summary": "Get course progress",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Course ID",
                        "name": "courseId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.DerivedStatus"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Not assigned",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/reports/companies": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Get aggregate progress counters per company. Managers only see their own company.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reports"
                ],
                "summary": "Get companies summary",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.CompanySummary"
                            }
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/reports/companies/{companyId}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Get the statuses, overall counters and per-course cohorts of a company",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reports"
                ],
                "summary": "Get company report",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Company ID",
                        "name": "companyId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.CompanyReport"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Company not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/reports/companies/{companyId}/inactive": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Get the unfinished assignments of a company that passed the inactivity threshold",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reports"
                ],
                "summary": "Get inactive assignments",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Company ID",
                        "name": "companyId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.DerivedStatus"
                            }
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Company not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/signatures": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Capture the attendance signature an assignment is waiting for",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "progress"
                ],
                "summary": "Sign attendance",
                "parameters": [
                    {
                        "description": "Course to sign",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.SignRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.DerivedStatus"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Not assigned",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "models.ActivityType": {
            "type": "string",
            "enum": [
                "full_course",
                "topic",
                "attendance_only"
            ],
            "x-enum-varnames": [
                "ActivityTypeFullCourse",
                "ActivityTypeTopic",
                "ActivityTypeAttendanceOnly"
            ]
        },
        "models.AggregateStats": {
            "type": "object",
            "properties": {
                "averageCompletionRate": {
                    "type": "integer"
                },
                "completed": {
                    "type": "integer"
                },
                "inProgress": {
                    "type": "integer"
                },
                "inactiveCount": {
                    "type": "integer"
                },
                "notStarted": {
                    "type": "integer"
                },
                "totalAssignments": {
                    "type": "integer"
                }
            }
        },
        "models.AttemptResult": {
            "type": "object",
            "properties": {
                "attempt": {
                    "$ref": "#/definitions/models.EvaluationAttempt"
                },
                "status": {
                    "$ref": "#/definitions/models.DerivedStatus"
                }
            }
        },
        "models.CompanyReport": {
            "type": "object",
            "properties": {
                "companyId": {
                    "type": "integer"
                },
                "courses": {
                    "type": "object",
                    "additionalProperties": {
                        "$ref": "#/definitions/models.AggregateStats"
                    }
                },
                "stats": {
                    "$ref": "#/definitions/models.AggregateStats"
                },
                "statuses": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.DerivedStatus"
                    }
                }
            }
        },
        "models.CompanySummary": {
            "type": "object",
            "properties": {
                "companyId": {
                    "type": "integer"
                },
                "companyName": {
                    "type": "string"
                },
                "stats": {
                    "$ref": "#/definitions/models.AggregateStats"
                }
            }
        },
        "models.DerivedStatus": {
            "type": "object",
            "properties": {
                "activityType": {
                    "$ref": "#/definitions/models.ActivityType"
                },
                "certificateEligible": {
                    "type": "boolean"
                },
                "certificateIssuable": {
                    "type": "boolean"
                },
                "companyId": {
                    "type": "integer"
                },
                "completedLessons": {
                    "type": "integer"
                },
                "courseId": {
                    "type": "integer"
                },
                "daysInactive": {
                    "type": "integer"
                },
                "evaluation": {
                    "$ref": "#/definitions/models.EvaluationGate"
                },
                "isInactive": {
                    "type": "boolean"
                },
                "modules": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.ModuleProgress"
                    }
                },
                "progressPercent": {
                    "type": "integer"
                },
                "signature": {
                    "$ref": "#/definitions/models.SignatureGate"
                },
                "status": {
                    "$ref": "#/definitions/models.Status"
                },
                "totalLessons": {
                    "type": "integer"
                },
                "userId": {
                    "type": "integer"
                }
            }
        },
        "models.EvaluationAttempt": {
            "type": "object",
            "properties": {
                "attemptNumber": {
                    "type": "integer",
                    "minimum": 1
                },
                "completedAt": {
                    "type": "string"
                },
                "evaluationId": {
                    "type": "integer"
                },
                "id": {
                    "type": "integer"
                },
                "passed": {
                    "type": "boolean"
                },
                "score": {
                    "type": "number",
                    "maximum": 100,
                    "minimum": 0
                },
                "userId": {
                    "type": "integer"
                }
            }
        },
        "models.EvaluationGate": {
            "type": "object",
            "properties": {
                "attemptsRemaining": {
                    "type": "integer"
                },
                "attemptsUsed": {
                    "type": "integer"
                },
                "canRetake": {
                    "type": "boolean"
                },
                "configured": {
                    "type": "boolean"
                },
                "evaluationId": {
                    "type": "integer"
                },
                "hasPassed": {
                    "type": "boolean"
                },
                "lastScore": {
                    "type": "number"
                },
                "passingAttemptId": {
                    "type": "integer"
                },
                "required": {
                    "type": "boolean"
                }
            }
        },
        "models.IssueCertificateRequest": {
            "type": "object",
            "required": [
                "courseId",
                "userId"
            ],
            "properties": {
                "certificateUrl": {
                    "type": "string",
                    "example": "https://files.example.com/certificates/1-1.pdf"
                },
                "courseId": {
                    "type": "integer",
                    "example": 1
                },
                "userId": {
                    "type": "integer",
                    "example": 1
                }
            }
        },
        "models.ModuleProgress": {
            "type": "object",
            "properties": {
                "completed": {
                    "type": "boolean"
                },
                "completedLessons": {
                    "type": "integer"
                },
                "moduleId": {
                    "type": "integer"
                },
                "progressPercent": {
                    "type": "integer"
                },
                "totalLessons": {
                    "type": "integer"
                }
            }
        },
        "models.SignRequest": {
            "type": "object",
            "required": [
                "courseId"
            ],
            "properties": {
                "courseId": {
                    "type": "integer",
                    "example": 1
                }
            }
        },
        "models.SignatureGate": {
            "type": "object",
            "properties": {
                "required": {
                    "type": "boolean"
                },
                "signed": {
                    "type": "boolean"
                }
            }
        },
        "models.Status": {
            "type": "string",
            "enum": [
                "not_started",
                "in_progress",
                "lessons_completed",
                "evaluation_pending",
                "evaluation_failed",
                "signature_pending",
                "completed",
                "certificate_generated"
            ],
            "x-enum-varnames": [
                "StatusNotStarted",
                "StatusInProgress",
                "StatusLessonsCompleted",
                "StatusEvaluationPending",
                "StatusEvaluationFailed",
                "StatusSignaturePending",
                "StatusCompleted",
                "StatusCertificateGenerated"
            ]
        },
        "models.SubmitAttemptRequest": {
            "type": "object",
            "properties": {
                "score": {
                    "type": "number",
                    "maximum": 100,
                    "minimum": 0,
                    "example": 85
                }
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "description": "API key for service-to-service authentication",
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        },
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
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "CorpLearning Progress API",
	Description:      "Derived course progress, evaluation gates, attendance signatures and company reports of corporate training programs",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
