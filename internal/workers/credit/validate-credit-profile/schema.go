// internal/workers/credit/validate-credit-profile/schema.go
package validatecreditprofile

// defaultInputSchema is used when the activity registry has no inputSchema for
// this task type. Keep it in step with configs/activity-registry.json.
const defaultInputSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["applicantId", "profile"],
  "definitions": {
    "amount": {
      "type": ["number", "string", "null"],
      "minimum": 0,
      "pattern": "^\\s*([0-9][0-9,]*(\\.[0-9]+)?)?\\s*$"
    },
    "date": {
      "type": "string",
      "pattern": "^(\\d{4}-\\d{2}-\\d{2}([T ]\\d{2}:\\d{2}(:\\d{2}(\\.\\d+)?)?(Z|[+-]\\d{2}:?\\d{2})?)?)?$"
    }
  },
  "properties": {
    "applicantId": {"type": "string", "minLength": 1},
    "failOnInvalid": {"type": "boolean"},
    "profile": {
      "type": "object",
      "properties": {
        "creditAccounts": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["creditType", "paymentStatus"],
            "properties": {
              "lenderName": {"type": "string"},
              "creditType": {
                "type": "string",
                "enum": ["credit-card", "personal-loan", "home-loan", "auto-loan", "business-loan", "microfinance", "student-loan"]
              },
              "outstandingBalance": {"$ref": "#/definitions/amount"},
              "creditLimit": {"$ref": "#/definitions/amount"},
              "monthlyPayment": {"$ref": "#/definitions/amount"},
              "paymentStatus": {
                "type": "string",
                "enum": ["current", "30-days", "60-days", "90-days", "120-days", "charged-off"]
              },
              "accountOpenDate": {"$ref": "#/definitions/date"},
              "lastPaymentDate": {"$ref": "#/definitions/date"}
            }
          }
        },
        "incomeSources": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["amount", "frequency"],
            "properties": {
              "type": {
                "type": "string",
                "enum": ["", "salary", "business", "freelance", "investment", "rental", "pension", "social-security", "other"]
              },
              "source": {"type": "string"},
              "amount": {"$ref": "#/definitions/amount"},
              "frequency": {
                "type": "string",
                "enum": ["monthly", "weekly", "bi-weekly", "quarterly", "annually", "irregular"]
              },
              "startDate": {"$ref": "#/definitions/date"},
              "isStable": {
                "type": "string",
                "enum": ["", "very-stable", "stable", "moderate", "unstable", "very-unstable"]
              }
            }
          }
        },
        "employmentInfo": {
          "type": "object",
          "properties": {
            "employmentType": {
              "type": "string",
              "enum": ["", "salaried", "self-employed", "business-owner", "freelancer", "contractor", "retired", "student", "unemployed"]
            },
            "industry": {
              "type": "string",
              "enum": ["", "technology", "finance", "healthcare", "education", "retail", "manufacturing", "government", "non-profit", "other"]
            },
            "companyName": {"type": "string"},
            "jobTitle": {"type": "string"},
            "employmentStartDate": {"$ref": "#/definitions/date"},
            "workExperience": {"type": "string", "enum": ["", "0-1", "1-3", "3-5", "5-10", "10+"]}
          }
        },
        "financialStability": {
          "type": ["object", "null"],
          "properties": {
            "monthlyExpenses": {"$ref": "#/definitions/amount"},
            "emergencyFund": {"$ref": "#/definitions/amount"},
            "otherMonthlyIncome": {"$ref": "#/definitions/amount"},
            "expectedIncomeGrowth": {
              "type": "string",
              "enum": ["", "high", "moderate", "low", "declining", "uncertain"]
            }
          }
        },
        "creditHistory": {
          "type": "object",
          "properties": {
            "bankruptcy": {"type": "string", "enum": ["", "no", "yes-past", "yes-current"]},
            "accountsInCollections": {"type": "string", "enum": ["", "no", "yes-resolved", "yes-current"]},
            "creditInquiries": {"type": "string", "enum": ["", "0-2", "3-5", "6-10", "10+"]},
            "creditFreezeStatus": {"type": "string", "enum": ["", "no-freeze", "frozen", "partial"]}
          }
        }
      }
    }
  }
}`
