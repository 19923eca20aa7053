package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table 内存中的原始表格：一行表头加若干数据行
// 引擎开始任何连接之前三张表都会完整物化，因为匹配键需要先整表归一化去重。
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// utf8BOM CSV 文件常见的 UTF-8 BOM 前缀
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV 读取 CSV 表格
// 分隔符自动探测：登记表导出用分号，订单账本用逗号，以表头行内数量多者为准。
func ReadCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取 CSV 失败: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("CSV 内容为空")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffSeparator(data)
	reader.FieldsPerRecord = -1 // 容忍参差行，列校验由字段映射负责
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析 CSV 失败: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV 无数据行")
	}

	return &Table{Headers: records[0], Rows: records[1:]}, nil
}

// sniffSeparator 从表头行探测分隔符（分号/逗号/制表符）
func sniffSeparator(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	counts := map[rune]int{
		';':  bytes.Count(line, []byte(";")),
		',':  bytes.Count(line, []byte(",")),
		'\t': bytes.Count(line, []byte("\t")),
	}
	best := ','
	for _, sep := range []rune{';', '\t'} {
		if counts[sep] > counts[best] {
			best = sep
		}
	}
	return best
}

// ReadXLSX 读取 Excel 工作簿的第一个 Sheet
func ReadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("打开 Excel 文件失败: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("工作簿不含任何 Sheet")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("读取 Sheet %q 失败: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("Sheet %q 无数据行", sheets[0])
	}

	return &Table{Headers: rows[0], Rows: rows[1:]}, nil
}

// ReadFile 按扩展名读取表格文件（.xlsx/.xlsm 走 Excel，其余按 CSV）
func ReadFile(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("打开文件失败: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	}
}

// Cell 取第 row 行第 col 列的单元格，越界返回空串
func (t *Table) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}
