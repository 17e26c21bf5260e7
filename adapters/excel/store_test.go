package excel

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"gradebook/domain/student"
	apperrors "gradebook/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestStore(t *testing.T, name string) *Store {
	t.Helper()
	config := DefaultExcelConfig()
	config.FilePath = filepath.Join(t.TempDir(), name)
	store, err := NewStore(config)
	require.NoError(t, err)
	return store
}

func TestNewStoreRejectsUnknownExtension(t *testing.T) {
	config := DefaultExcelConfig()
	config.FilePath = "students.json"
	_, err := NewStore(config)
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))

	config.FilePath = ""
	_, err = NewStore(config)
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
}

func TestEnsureInitializedCreatesHeaderOnlyFile(t *testing.T) {
	for _, name := range []string{"student_data.xlsx", "student_data.csv"} {
		t.Run(name, func(t *testing.T) {
			store := newTestStore(t, name)
			require.NoError(t, store.EnsureInitialized())

			table, err := store.LoadAll(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, table)
			assert.Empty(t, table)
		})
	}
}

func TestEnsureInitializedCreatesParentDirs(t *testing.T) {
	config := DefaultExcelConfig()
	config.FilePath = filepath.Join(t.TempDir(), "nested", "data", "students.xlsx")
	store, err := NewStore(config)
	require.NoError(t, err)

	require.NoError(t, store.EnsureInitialized())
	assert.FileExists(t, config.FilePath)
}

func TestEnsureInitializedIsIdempotent(t *testing.T) {
	store := newTestStore(t, "student_data.xlsx")
	ctx := context.Background()
	require.NoError(t, store.EnsureInitialized())
	require.NoError(t, store.AppendAndSave(ctx, student.Record{Name: "Ali", RollNumber: "101", Class: "6th", Marks: 55}))

	require.NoError(t, store.EnsureInitialized())

	table, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, table, 1)
}

func TestAppendAndSavePreservesOrder(t *testing.T) {
	for _, name := range []string{"student_data.xlsx", "student_data.csv"} {
		t.Run(name, func(t *testing.T) {
			store := newTestStore(t, name)
			ctx := context.Background()
			require.NoError(t, store.EnsureInitialized())

			records := []student.Record{
				{Name: "Ali", RollNumber: "101", Class: "6th", Marks: 55},
				{Name: "Sara", RollNumber: "007", Class: "10th", Marks: 0},
				{Name: "Ali", RollNumber: "101", Class: "6th", Marks: 55},
				{Name: "Zoya, Jr.", RollNumber: "A-12", Class: "5th", Marks: 100},
			}
			for i, rec := range records {
				require.NoError(t, store.AppendAndSave(ctx, rec))

				table, err := store.LoadAll(ctx)
				require.NoError(t, err)
				require.Len(t, table, i+1)
				assert.Equal(t, rec, table[i])
				assert.Equal(t, student.Table(records[:i+1]), table)
			}
		})
	}
}

func TestAppendAndSaveLeavesNoTempFiles(t *testing.T) {
	store := newTestStore(t, "student_data.xlsx")
	ctx := context.Background()
	require.NoError(t, store.EnsureInitialized())
	require.NoError(t, store.AppendAndSave(ctx, student.Record{Name: "Ali", RollNumber: "101", Class: "6th", Marks: 55}))

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "student_data.xlsx", entries[0].Name())
}

func TestConcurrentAppendsNeverLoseRecords(t *testing.T) {
	store := newTestStore(t, "student_data.xlsx")
	ctx := context.Background()
	require.NoError(t, store.EnsureInitialized())

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := student.Record{Name: "Student", RollNumber: string(rune('A' + i)), Class: "7th", Marks: 40 + i}
			assert.NoError(t, store.AppendAndSave(ctx, rec))
		}(i)
	}
	wg.Wait()

	table, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, table, writers)
}

func TestLoadAllMissingFile(t *testing.T) {
	store := newTestStore(t, "student_data.xlsx")

	_, err := store.LoadAll(context.Background())
	assert.Equal(t, apperrors.CodeStorageRead, apperrors.GetCode(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAllCancelledContext(t *testing.T) {
	store := newTestStore(t, "student_data.xlsx")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.LoadAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.AppendAndSave(ctx, student.Record{}), context.Canceled)
}

func TestLoadAllRejectsCorruptFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"wrong header", "Name,Class,Roll Number,Marks\nAli,6th,101,55\n"},
		{"missing column", "Name,Roll Number,Class\nAli,101,6th\n"},
		{"unparseable marks", "Name,Roll Number,Class,Marks\nAli,101,6th,fifty\n"},
		{"fractional marks", "Name,Roll Number,Class,Marks\nAli,101,6th,55.5\n"},
		{"empty marks", "Name,Roll Number,Class,Marks\nAli,101,6th,\n"},
		{"extra cells", "Name,Roll Number,Class,Marks\nAli,101,6th,55,oops\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t, "student_data.csv")
			require.NoError(t, os.WriteFile(store.Path(), []byte(tt.content), 0o644))

			_, err := store.LoadAll(context.Background())
			assert.Equal(t, apperrors.CodeStorageRead, apperrors.GetCode(err))
		})
	}
}

func TestAppendToCorruptFileKeepsOriginal(t *testing.T) {
	store := newTestStore(t, "student_data.csv")
	original := []byte("Name,Roll Number,Class,Marks\nAli,101,6th,not-a-number\n")
	require.NoError(t, os.WriteFile(store.Path(), original, 0o644))

	err := store.AppendAndSave(context.Background(), student.Record{Name: "Sara", RollNumber: "7", Class: "5th", Marks: 80})
	assert.Equal(t, apperrors.CodeStorageRead, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), `append of roll "7" aborted`)

	after, readErr := os.ReadFile(store.Path())
	require.NoError(t, readErr)
	assert.Equal(t, original, after)
}

func TestLoadAllToleratesBlankRowsAndFloatMarks(t *testing.T) {
	store := newTestStore(t, "student_data.csv")
	content := "Name,Roll Number,Class,Marks\nAli,101,6th,55.0\n,,,\nSara,7,5th,80\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o644))

	table, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, student.Table{
		{Name: "Ali", RollNumber: "101", Class: "6th", Marks: 55},
		{Name: "Sara", RollNumber: "7", Class: "5th", Marks: 80},
	}, table)
}

func TestLoadAllAcceptsCSVWithByteOrderMark(t *testing.T) {
	store := newTestStore(t, "student_data.csv")
	content := "\ufeffName,Roll Number,Class,Marks\nAli,101,6th,55\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o644))

	table, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, student.Table{{Name: "Ali", RollNumber: "101", Class: "6th", Marks: 55}}, table)

	require.NoError(t, store.AppendAndSave(context.Background(), student.Record{Name: "Sara", RollNumber: "7", Class: "5th", Marks: 80}))
	table, err = store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, table, 2)
}

// A workbook laid out the way spreadsheet tools commonly save it: a
// differently named first sheet and numeric roll numbers.
func TestLoadAllReadsFirstSheetOfExistingWorkbook(t *testing.T) {
	store := newTestStore(t, "student_data.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Sheet"))
	require.NoError(t, f.SetSheetRow("Sheet", "A1", &[]interface{}{"Name", "Roll Number", "Class", "Marks"}))
	require.NoError(t, f.SetSheetRow("Sheet", "A2", &[]interface{}{"Ali", 101, "6th", 55}))
	_, err := f.NewSheet("Notes")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Notes", "A1", "ignored"))
	require.NoError(t, f.SaveAs(store.Path()))
	require.NoError(t, f.Close())

	table, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, student.Table{{Name: "Ali", RollNumber: "101", Class: "6th", Marks: 55}}, table)
}

func TestWrittenWorkbookStoresMarksAsNumbers(t *testing.T) {
	store := newTestStore(t, "student_data.xlsx")
	ctx := context.Background()
	require.NoError(t, store.EnsureInitialized())
	require.NoError(t, store.AppendAndSave(ctx, student.Record{Name: "Ali", RollNumber: "101", Class: "6th", Marks: 55}))

	f, err := excelize.OpenFile(store.Path())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())
	header, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, student.Header, header[0])

	marksType, err := f.GetCellType("Sheet1", "D2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, marksType)
	assert.NotEqual(t, excelize.CellTypeInlineString, marksType)

	rollType, err := f.GetCellType("Sheet1", "B2")
	require.NoError(t, err)
	assert.Contains(t, []excelize.CellType{excelize.CellTypeSharedString, excelize.CellTypeInlineString}, rollType)
}

func TestWriteTableFailureIsStorageWrite(t *testing.T) {
	config := DefaultExcelConfig()
	config.FilePath = filepath.Join(t.TempDir(), "missing-dir", "students.xlsx")
	writer, err := NewDataWriter(config)
	require.NoError(t, err)

	err = writer.WriteTable(student.Table{})
	assert.Equal(t, apperrors.CodeStorageWrite, apperrors.GetCode(err))
	assert.NoFileExists(t, config.FilePath)
}
