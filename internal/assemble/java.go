package assemble

import (
	"fmt"
	"regexp"

	"github.com/programme-lv/activecode/api"
	"github.com/programme-lv/activecode/internal/exercise"
)

const driverFilename = "TestRunner.java"

var publicClassRe = regexp.MustCompile(`public\s+(?:(?:final|abstract)\s+)*class\s+(\w+)`)

func publicClass(src string) (string, error) {
	m := publicClassRe.FindStringSubmatch(src)
	if m == nil {
		return "", fmt.Errorf("no public class declared")
	}
	return m[1], nil
}

// assembleJUnit submits a driver that runs the suffix's test class against
// the student's class. Files[0] is always the student class.
func assembleJUnit(ex *exercise.Exercise, code string) (Program, error) {
	student := join(ex.Prefix, code)
	studentClass, err := publicClass(student)
	if err != nil {
		return Program{}, fmt.Errorf("student code: %w", err)
	}
	testClass, err := publicClass(ex.Suffix)
	if err != nil {
		return Program{}, fmt.Errorf("unit tests: %w", err)
	}
	if studentClass == testClass {
		return Program{}, fmt.Errorf("student class and test class are both named %s", testClass)
	}

	return Program{
		Spec: api.RunSpec{
			SourceCode:     junitDriver(testClass),
			SourceFilename: driverFilename,
		},
		Files: []File{
			{Name: studentClass + ".java", Content: student},
			{Name: testClass + ".java", Content: ex.Suffix},
		},
		UnitTests: true,
	}, nil
}

const driverTemplate = `import org.junit.runner.JUnitCore;
import org.junit.runner.Result;
import org.junit.runner.notification.Failure;

public class TestRunner {
    public static void main(String[] args) {
        Result result = JUnitCore.runClasses(%s.class);
        for (Failure failure : result.getFailures()) {
            System.out.println(failure.toString());
        }
        System.out.println("Tests run: " + result.getRunCount() + ", Failures: " + result.getFailureCount());
    }
}
`

func junitDriver(testClass string) string {
	return fmt.Sprintf(driverTemplate, testClass)
}
