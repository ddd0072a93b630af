package constants

import (
	"fmt"
	"strings"
)

// Role pemanggil (dari klaim token "role")
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleTeacher   Role = "teacher"
	RolePrincipal Role = "principal"
	RoleStudent   Role = "student"
	RoleParent    Role = "parent"
)

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleAdmin, RoleTeacher, RolePrincipal, RoleStudent, RoleParent:
		return r, true
	}
	return "", false
}

// Action: kemampuan yang dicek sebelum memanggil engine rapor
type Action string

const (
	ActionRecordScore     Action = "score.record"
	ActionRecordAttitude  Action = "attitude.record"
	ActionManageWeights   Action = "weights.manage"
	ActionValidate        Action = "report_card.validate"
	ActionGenerate        Action = "report_card.generate"
	ActionSubmit          Action = "report_card.submit"
	ActionApprove         Action = "report_card.approve"
	ActionReject          Action = "report_card.reject"
	ActionUnlock          Action = "report_card.unlock"
	ActionAttachDocument  Action = "report_card.attach_document"
	ActionViewReportCard  Action = "report_card.view"
	ActionViewClassReport Action = "report_card.view_class"
)

var capabilities = map[Role]map[Action]bool{
	RoleAdmin: {
		ActionManageWeights:   true,
		ActionValidate:        true,
		ActionGenerate:        true,
		ActionSubmit:          true,
		ActionUnlock:          true,
		ActionAttachDocument:  true,
		ActionViewReportCard:  true,
		ActionViewClassReport: true,
	},
	RoleTeacher: {
		ActionRecordScore:     true,
		ActionRecordAttitude:  true,
		ActionValidate:        true,
		ActionSubmit:          true,
		ActionViewReportCard:  true,
		ActionViewClassReport: true,
	},
	RolePrincipal: {
		ActionApprove:         true,
		ActionReject:          true,
		ActionViewReportCard:  true,
		ActionViewClassReport: true,
	},
	RoleStudent: {
		ActionViewReportCard: true,
	},
	RoleParent: {
		ActionViewReportCard: true,
	},
}

// Can: tabel kemampuan role × action. Role tak dikenal → false.
func Can(role Role, action Action) bool {
	return capabilities[role][action]
}

// Template pesan error role
const ErrActionForbidden = "❌ Role %s tidak boleh melakukan %s."

func ForbiddenMessage(role Role, action Action) string {
	if role == "" {
		role = "(tanpa role)"
	}
	return fmt.Sprintf(ErrActionForbidden, role, action)
}
