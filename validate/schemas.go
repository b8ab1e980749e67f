// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validate

// Schema names
const (
	ProposalDraft  = "proposal_draft"
	CastVote       = "cast_vote"
	UpdateVote     = "update_vote"
	SetActive      = "set_active"
	Feedback       = "feedback"
	FeedbackStatus = "feedback_status"
	Complaint      = "complaint"
	Implementation = "implementation"
	Admin          = "admin"
)

// Schemas check shape, types and closed enums. Length limits and
// cross-field rules live in the models Validate methods.
var schemas = map[string]string{
	ProposalDraft: `{
		"type": "object",
		"required": ["title", "description", "category", "scope", "starts_at", "ends_at"],
		"properties": {
			"title": {"type": "string"},
			"description": {"type": "string"},
			"category": {"enum": ["infrastructure", "budget", "policy", "development", "other"]},
			"scope": {"enum": ["national", "regional", "zoneOrSubcity", "woreda"]},
			"target": {"type": "string"},
			"starts_at": {"type": "string", "format": "date-time"},
			"ends_at": {"type": "string", "format": "date-time"}
		}
	}`,
	CastVote: `{
		"type": "object",
		"required": ["proposal_id", "choice"],
		"properties": {
			"proposal_id": {"type": "string", "minLength": 1},
			"choice": {"enum": ["yes", "no", "abstain"]}
		}
	}`,
	UpdateVote: `{
		"type": "object",
		"required": ["choice"],
		"properties": {
			"choice": {"enum": ["yes", "no", "abstain"]}
		}
	}`,
	SetActive: `{
		"type": "object",
		"required": ["is_active"],
		"properties": {
			"is_active": {"type": "boolean"}
		}
	}`,
	Feedback: `{
		"type": "object",
		"required": ["title", "message", "category"],
		"properties": {
			"title": {"type": "string"},
			"message": {"type": "string"},
			"category": {"enum": ["complaint", "suggestion", "report", "inquiry"]},
			"priority": {"enum": ["low", "medium", "high", "urgent"]},
			"proposal_id": {"type": ["string", "null"]}
		}
	}`,
	FeedbackStatus: `{
		"type": "object",
		"required": ["status"],
		"properties": {
			"status": {"enum": ["pending", "seen"]}
		}
	}`,
	Complaint: `{
		"type": "object",
		"required": ["title", "message", "to_admin"],
		"properties": {
			"title": {"type": "string"},
			"message": {"type": "string"},
			"priority": {"enum": ["low", "medium", "high", "urgent"]},
			"to_admin": {"type": "string", "minLength": 1},
			"region": {"type": "string"},
			"zone_or_subcity": {"type": "string"},
			"woreda": {"type": "string"}
		}
	}`,
	Implementation: `{
		"type": "object",
		"required": ["status", "progress_percentage", "start_date", "expected_completion"],
		"properties": {
			"proposal_id": {"type": "string"},
			"status": {"enum": ["not_started", "in_progress", "completed", "cancelled"]},
			"progress_percentage": {"type": "integer", "minimum": 0, "maximum": 100},
			"budget_allocated": {"type": ["number", "string"]},
			"budget_spent": {"type": ["number", "string"]},
			"start_date": {"type": "string", "format": "date-time"},
			"expected_completion": {"type": "string", "format": "date-time"},
			"actual_completion": {"type": ["string", "null"], "format": "date-time"},
			"notes": {"type": "string"}
		}
	}`,
	Admin: `{
		"type": "object",
		"required": ["user_id", "assigned_region", "assigned_zone_or_subcity", "assigned_woreda", "permissions"],
		"properties": {
			"user_id": {"type": "string", "minLength": 1},
			"assigned_region": {"type": "string"},
			"assigned_zone_or_subcity": {"type": "string"},
			"assigned_woreda": {"type": "string"},
			"job_description": {"type": "string"},
			"contact_info": {"type": "string"},
			"permissions": {
				"type": "array",
				"uniqueItems": true,
				"items": {"enum": ["national", "regional", "zoneOrSubcity", "woreda"]}
			}
		}
	}`,
}
