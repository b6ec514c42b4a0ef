package elevconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/adiga/ElevatorControllerSystem/internal/elevconsts"
	"github.com/adiga/ElevatorControllerSystem/internal/elevio"
	"github.com/adiga/ElevatorControllerSystem/internal/elevmotor"
	"github.com/adiga/ElevatorControllerSystem/internal/logger"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var Log = logger.GetLogger()

const (
	ENV_BOARD_ADDRESS   = "ELEVATOR_BOARD_ADDRESS"
	ENV_DISPLAY_ADDRESS = "ELEVATOR_DISPLAY_ADDRESS"
	ENV_LOG_LEVEL       = "ELEVATOR_LOG_LEVEL"
	ENV_ID              = "ELEVATOR_ID"
	ENV_DUTY_UP         = "ELEVATOR_DUTY_UP"
	ENV_DUTY_DOWN       = "ELEVATOR_DUTY_DOWN"
)

type MotorConfig struct {
	DutyUp   uint8 `yaml:"duty_up"`
	DutyDown uint8 `yaml:"duty_down"`
}

type Config struct {
	Identifier     string        `yaml:"identifier"`
	BoardAddress   string        `yaml:"board_address"`
	DisplayAddress string        `yaml:"display_address"` //empty disables the network display
	VerboseDisplay bool          `yaml:"verbose_display"`
	LogLevel       string        `yaml:"log_level"`
	PollRate       time.Duration `yaml:"poll_rate"`
	Motor          MotorConfig   `yaml:"motor"`
}

func Default() Config {
	return Config{
		BoardAddress: elevio.DEFAULT_BOARD_ADDRESS,
		LogLevel:     "info",
		PollRate:     elevio.DEFAULT_POLL_RATE,
		Motor: MotorConfig{
			DutyUp:   elevconsts.DEFAULT_DUTY_UP,
			DutyDown: elevconsts.DEFAULT_DUTY_DOWN,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path gives the defaults.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return c, fmt.Errorf("error reading config %s: %w", path, err)
	}
	defer file.Close()

	err = yaml.NewDecoder(file).Decode(&c)
	if err != nil {
		return c, fmt.Errorf("error decoding config %s: %w", path, err)
	}
	return c, nil
}

// ReadEnv returns the variables of a .env file overlaid with the process
// environment. A missing file is not an error.
func ReadEnv(path string) (map[string]string, error) {
	values := map[string]string{}
	if path != "" {
		envFile, err := godotenv.Read(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading env file %s: %w", path, err)
		}
		for key, value := range envFile {
			values[key] = value
		}
	}

	for _, key := range []string{ENV_BOARD_ADDRESS, ENV_DISPLAY_ADDRESS, ENV_LOG_LEVEL, ENV_ID, ENV_DUTY_UP, ENV_DUTY_DOWN} {
		if value, ok := os.LookupEnv(key); ok {
			values[key] = value
		}
	}
	return values, nil
}

func (c *Config) ApplyEnv(values map[string]string) error {
	if value, ok := values[ENV_BOARD_ADDRESS]; ok {
		c.BoardAddress = value
	}
	if value, ok := values[ENV_DISPLAY_ADDRESS]; ok {
		c.DisplayAddress = value
	}
	if value, ok := values[ENV_LOG_LEVEL]; ok {
		c.LogLevel = value
	}
	if value, ok := values[ENV_ID]; ok {
		c.Identifier = value
	}
	if value, ok := values[ENV_DUTY_UP]; ok {
		duty, err := parseDuty(ENV_DUTY_UP, value)
		if err != nil {
			return err
		}
		c.Motor.DutyUp = duty
	}
	if value, ok := values[ENV_DUTY_DOWN]; ok {
		duty, err := parseDuty(ENV_DUTY_DOWN, value)
		if err != nil {
			return err
		}
		c.Motor.DutyDown = duty
	}
	return nil
}

func parseDuty(key string, value string) (uint8, error) {
	duty, err := strconv.ParseUint(value, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("error converting %s to a duty: %w", key, err)
	}
	return uint8(duty), nil
}

func (c Config) Validate() error {
	if c.BoardAddress == "" {
		return errors.New("board_address must be set")
	}
	if c.Motor.DutyUp == 0 || c.Motor.DutyUp > elevconsts.DUTY_PERIOD {
		return fmt.Errorf("motor.duty_up %d must be in 1..%d", c.Motor.DutyUp, elevconsts.DUTY_PERIOD)
	}
	if c.Motor.DutyDown == 0 || c.Motor.DutyDown > elevconsts.DUTY_PERIOD {
		return fmt.Errorf("motor.duty_down %d must be in 1..%d", c.Motor.DutyDown, elevconsts.DUTY_PERIOD)
	}
	if c.PollRate <= 0 {
		return fmt.Errorf("poll_rate %v must be positive", c.PollRate)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

func (c Config) MotorSpeeds() elevmotor.MotorSpeeds {
	return elevmotor.MotorSpeeds{
		Up:   c.Motor.DutyUp,
		Down: c.Motor.DutyDown,
	}
}

// LoadAll reads the file, applies env overrides and validates the result.
func LoadAll(configPath string, envPath string) (Config, error) {
	c, err := Load(configPath)
	if err != nil {
		return c, err
	}

	values, err := ReadEnv(envPath)
	if err != nil {
		return c, err
	}
	if err := c.ApplyEnv(values); err != nil {
		return c, err
	}

	if err := c.Validate(); err != nil {
		return c, err
	}
	Log.Debug().Msgf("Loaded config %+v", c)
	return c, nil
}
