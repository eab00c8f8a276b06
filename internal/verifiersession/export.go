package verifiersession

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportDisclosedAttributesXLSX renders a Done session's disclosed
// attributes as a single-sheet workbook, one row per DisclosedAttribute,
// for an RP operator to download from the use-case registry's export
// surface. Grounded on the teacher's worksheet-row idiom
// (internal/mockas/paris_users/xls.go reads rows the same way this writes
// them: header row first, one data row per record).
func ExportDisclosedAttributesXLSX(session *Session) ([]byte, error) {
	if session.Status != StatusDone {
		return nil, &ErrUnexpectedState{Observed: session.Status, Expected: StatusDone}
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "DisclosedAttributes"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"session_token", "usecase_id", "result_status", "credential_query_id", "path", "value"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	resultStatus := ""
	var disclosed []DisclosedAttribute
	if session.Result != nil {
		resultStatus = string(session.Result.Status)
		disclosed = session.Result.Disclosed
	}

	for i, attr := range disclosed {
		row := i + 2
		values := []any{session.Token, session.UseCaseID, resultStatus, attr.CredentialQueryID, attr.Path, fmt.Sprintf("%v", attr.Value)}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
